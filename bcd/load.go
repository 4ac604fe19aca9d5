package bcd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ErrInvalidData is returned (wrapped) when knowledge base does not have the
// expected shape.
var ErrInvalidData = errors.New("invalid compatibility data")

const compatKey = "__compat"

// LoadFile reads knowledge base from file. Files with ".gz" extension are
// decompressed on the fly.
func LoadFile(path string, log *zap.Logger) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open compatibility data: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("unable to decompress compatibility data: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	return Load(r, log)
}

// Load reads and validates knowledge base. Both full data.json layout (with
// "css" object holding "properties" and "selectors") and flattened layout
// (with "properties" and "selectors" at the top level) are accepted. Only
// browsers listed in Browsers() are retained.
func Load(r io.Reader, log *zap.Logger) (*Data, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("bcd")

	start := time.Now()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read compatibility data: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: malformed json", ErrInvalidData)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level value must be an object", ErrInvalidData)
	}

	d := &Data{Version: root.Get("__meta.version").String()}

	styles := root
	if css := root.Get("css"); css.Exists() {
		if !css.IsObject() {
			return nil, fmt.Errorf("%w: css: must be an object", ErrInvalidData)
		}
		styles = css
	}

	if d.properties, err = loadTable(styles.Get("properties"), "properties"); err != nil {
		return nil, err
	}
	if d.selectors, err = loadTable(styles.Get("selectors"), "selectors"); err != nil {
		return nil, err
	}
	if err = loadBrowsers(root.Get("browsers"), d); err != nil {
		return nil, err
	}

	log.Debug("Compatibility data loaded",
		zap.String("version", d.Version),
		zap.Int("properties", len(d.properties)),
		zap.Int("selectors", len(d.selectors)),
		zap.Duration("elapsed", time.Since(start)))
	return d, nil
}

func loadTable(table gjson.Result, path string) (map[string]*Entry, error) {
	entries := make(map[string]*Entry)
	if !table.Exists() {
		return entries, nil
	}
	if !table.IsObject() {
		return nil, fmt.Errorf("%w: %s: must be an object", ErrInvalidData, path)
	}

	var err error
	table.ForEach(func(key, value gjson.Result) bool {
		var e *Entry
		if e, err = loadEntry(value, path+"."+key.String()); err != nil {
			return false
		}
		entries[key.String()] = e
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func loadEntry(value gjson.Result, path string) (*Entry, error) {
	if !value.IsObject() {
		return nil, fmt.Errorf("%w: %s: must be an object", ErrInvalidData, path)
	}

	e := &Entry{}

	var err error
	value.ForEach(func(key, sub gjson.Result) bool {
		name := key.String()
		if name == compatKey {
			e.Compat, err = loadCompat(sub, path+"."+name)
			return err == nil
		}
		var child *Entry
		if child, err = loadEntry(sub, path+"."+name); err != nil {
			return false
		}
		if e.Sub == nil {
			e.Sub = make(map[string]*Entry)
		}
		e.Sub[name] = child
		return true
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func loadCompat(value gjson.Result, path string) (*Compat, error) {
	if !value.IsObject() {
		return nil, fmt.Errorf("%w: %s: must be an object", ErrInvalidData, path)
	}

	c := &Compat{
		Description: value.Get("description").String(),
		MDNURL:      value.Get("mdn_url").String(),
		Status: Status{
			Experimental:  value.Get("status.experimental").Bool(),
			StandardTrack: value.Get("status.standard_track").Bool(),
			Deprecated:    value.Get("status.deprecated").Bool(),
		},
	}

	support := value.Get("support")
	if !support.Exists() {
		return c, nil
	}
	if !support.IsObject() {
		return nil, fmt.Errorf("%w: %s.support: must be an object", ErrInvalidData, path)
	}

	for _, b := range Browsers() {
		v := support.Get(b.String())
		where := path + ".support." + b.String()
		switch {
		case !v.Exists():
			continue
		case v.IsObject():
			s, err := loadStatement(v, where)
			if err != nil {
				return nil, err
			}
			c.Support[b] = []Statement{s}
		case v.IsArray():
			items := v.Array()
			stmts := make([]Statement, 0, len(items))
			for i, item := range items {
				s, err := loadStatement(item, fmt.Sprintf("%s[%d]", where, i))
				if err != nil {
					return nil, err
				}
				stmts = append(stmts, s)
			}
			c.Support[b] = stmts
		default:
			return nil, fmt.Errorf("%w: %s: must be an object or an array", ErrInvalidData, where)
		}
	}
	return c, nil
}

func loadStatement(value gjson.Result, path string) (Statement, error) {
	if !value.IsObject() {
		return Statement{}, fmt.Errorf("%w: %s: must be an object", ErrInvalidData, path)
	}

	var (
		s   Statement
		err error
	)
	if s.VersionAdded, err = loadVersion(value.Get("version_added"), path+".version_added"); err != nil {
		return Statement{}, err
	}
	if s.VersionRemoved, err = loadVersion(value.Get("version_removed"), path+".version_removed"); err != nil {
		return Statement{}, err
	}
	s.Prefix = value.Get("prefix").String()
	s.AlternativeName = value.Get("alternative_name").String()
	s.PartialImplementation = value.Get("partial_implementation").Bool()

	if flags := value.Get("flags"); flags.Exists() {
		if !flags.IsArray() {
			return Statement{}, fmt.Errorf("%w: %s.flags: must be an array", ErrInvalidData, path)
		}
		for _, f := range flags.Array() {
			s.Flags = append(s.Flags, Flag{
				Type:       f.Get("type").String(),
				Name:       f.Get("name").String(),
				ValueToSet: f.Get("value_to_set").String(),
			})
		}
	}
	return s, nil
}

func loadVersion(value gjson.Result, path string) (VersionToken, error) {
	if !value.Exists() {
		return VersionAbsent, nil
	}
	switch value.Type {
	case gjson.Null:
		return VersionNull, nil
	case gjson.False:
		return VersionFalse, nil
	case gjson.True:
		return VersionTrue, nil
	case gjson.String:
		return Version(value.String()), nil
	}
	return VersionAbsent, fmt.Errorf("%w: %s: must be a string, a boolean or null", ErrInvalidData, path)
}

func loadBrowsers(browsers gjson.Result, d *Data) error {
	if !browsers.Exists() {
		return nil
	}
	if !browsers.IsObject() {
		return fmt.Errorf("%w: browsers: must be an object", ErrInvalidData)
	}

	for _, b := range Browsers() {
		releases := browsers.Get(b.String() + ".releases")
		if !releases.Exists() {
			continue
		}
		where := "browsers." + b.String() + ".releases"
		if !releases.IsObject() {
			return fmt.Errorf("%w: %s: must be an object", ErrInvalidData, where)
		}

		table := make(map[string]Release)
		var err error
		releases.ForEach(func(key, value gjson.Result) bool {
			if !value.IsObject() {
				err = fmt.Errorf("%w: %s.%s: must be an object", ErrInvalidData, where, key.String())
				return false
			}
			table[key.String()] = Release{
				ID:     key.String(),
				Status: value.Get("status").String(),
				Date:   value.Get("release_date").String(),
			}
			return true
		})
		if err != nil {
			return err
		}
		d.releases[b] = table
	}
	return nil
}
