package inspect

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"csi/bcd"
)

const testData = `{
  "browsers": {
    "chrome": {"releases": {
      "119": {"release_date": "2023-10-31", "status": "retired"},
      "120": {"release_date": "2023-12-05", "status": "current"}
    }},
    "firefox": {"releases": {
      "121": {"release_date": "2023-12-19", "status": "current"}
    }},
    "safari": {"releases": {
      "17.1": {"release_date": "2023-12-11", "status": "retired"},
      "17.2": {"release_date": "2023-12-11", "status": "retired"}
    }}
  },
  "css": {
    "properties": {
      "color": {"__compat": {"support": {
        "chrome": {"version_added": true},
        "firefox": {"version_added": true},
        "safari": {"version_added": true}
      }}},
      "text-wrap": {"__compat": {"support": {
        "chrome": {"version_added": "120"},
        "firefox": {"version_added": false},
        "safari": {"version_added": "17.4"}
      }}},
      "aspect-ratio": {"__compat": {"support": {
        "chrome": {"version_added": "88"},
        "firefox": {"version_added": "89"},
        "safari": {"version_added": "15"}
      }}},
      "gap": {"__compat": {"support": {
        "chrome": {"version_added": "80"},
        "firefox": {"version_added": "66"},
        "safari": {"version_added": "12"}
      }}},
      "inset": {"__compat": {"support": {
        "chrome": {"version_added": "90"},
        "firefox": {"version_added": "66"},
        "safari": {"version_added": "14.1"}
      }}},
      "zoom": {"__compat": {"support": {
        "chrome": {"version_added": "1"},
        "firefox": [{"version_added": "126"}, {"version_added": null}],
        "safari": {"version_added": "3.1"}
      }}},
      "appearance": {"__compat": {"support": {
        "chrome": [
          {"version_added": "84"},
          {"version_added": "1", "prefix": "-webkit-"}
        ],
        "firefox": [
          {"version_added": "80"},
          {"version_added": "1", "prefix": "-moz-"}
        ],
        "safari": [
          {"version_added": "3", "prefix": "-webkit-"},
          {"version_added": "15.4"}
        ]
      }}},
      "user-select": {"__compat": {"support": {
        "chrome": {"version_added": "54"},
        "firefox": {"version_added": "69"},
        "safari": [
          {"version_added": "3", "prefix": "-webkit-"},
          {"version_added": null}
        ]
      }}},
      "display": {
        "__compat": {"support": {
          "chrome": {"version_added": "1"},
          "firefox": {"version_added": "1"},
          "safari": {"version_added": "1"}
        }},
        "grid": {"__compat": {"support": {
          "chrome": {"version_added": "57"},
          "firefox": {"version_added": "52"},
          "safari": {"version_added": "10.1"}
        }}},
        "flow-root": {"__compat": {"support": {
          "chrome": {"version_added": "58"},
          "firefox": {"version_added": "53"},
          "safari": {"version_added": "13"}
        }}},
        "contents": {"__compat": {"support": {
          "chrome": {"version_added": "65"},
          "firefox": {"version_added": "37"},
          "safari": {"version_added": "preview"}
        }}}
      },
      "width": {
        "__compat": {"support": {
          "chrome": {"version_added": "1"},
          "firefox": {"version_added": "1"},
          "safari": {"version_added": "1"}
        }},
        "fit-content": {"__compat": {"support": {
          "chrome": {"version_added": "46"},
          "firefox": {"version_added": "94"},
          "safari": {"version_added": "11"}
        }}},
        "fit-content()": {"__compat": {"support": {
          "chrome": {"version_added": false},
          "firefox": {"version_added": false},
          "safari": {"version_added": false}
        }}}
      },
      "grid-template-columns": {
        "__compat": {"support": {
          "chrome": {"version_added": "57"},
          "firefox": {"version_added": "52"},
          "safari": {"version_added": "10.1"}
        }},
        "masonry": {"__compat": {"support": {
          "chrome": {"version_added": false},
          "firefox": {"version_added": false, "flags": [{"type": "preference", "name": "layout.css.grid-template-masonry-value.enabled"}]},
          "safari": {"version_added": "17"}
        }}}
      },
      "empty-property": {}
    },
    "selectors": {
      "nesting": {"__compat": {"support": {
        "chrome": {"version_added": "120"},
        "firefox": {"version_added": "117"},
        "safari": {"version_added": "17.2"}
      }}}
    }
  }
}`

func loadTestData(t *testing.T) *bcd.Data {
	t.Helper()
	kb, err := bcd.Load(strings.NewReader(testData), zap.NewNop())
	if err != nil {
		t.Fatalf("unable to load test data: %v", err)
	}
	return kb
}
