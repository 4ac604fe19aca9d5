package state

import (
	"time"

	"golang.org/x/text/language"

	"csi/config"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:    time.Now(),
		Format:   config.OutputFmtText,
		Language: language.English,
	}
}
