package metadata

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// knownFields lists the JSON keys that Record models explicitly; everything
// else round-trips through Extra.
var knownFields = map[string]bool{
	"schannel": true,
	"fn":       true,
	"url":      true,
	"files":    true,
	"link":     true,
	"icondata": true,
}

// unmarshalRecord decodes data into a Record, routing unrecognized top-level
// keys into Extra so that fields contributed by a package's own
// info/index.json (build, depends, license, ...) survive a read-modify-write
// cycle untouched.
func unmarshalRecord(data []byte) (*Record, error) {
	raw := make(map[string]interface{})
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "unable to parse metadata record")
	}

	record := &Record{Extra: make(map[string]interface{})}
	for key, value := range raw {
		if !knownFields[key] {
			record.Extra[key] = value
			continue
		}
	}

	typed := struct {
		SChannel string   `json:"schannel"`
		Fn       string   `json:"fn"`
		URL      string   `json:"url"`
		Files    []string `json:"files"`
		Link     *Link    `json:"link"`
		IconData string   `json:"icondata"`
	}{}
	if err := json.Unmarshal(data, &typed); err != nil {
		return nil, errors.Wrap(err, "unable to parse metadata record")
	}
	record.SChannel = typed.SChannel
	record.Fn = typed.Fn
	record.URL = typed.URL
	record.Files = typed.Files
	record.Link = typed.Link
	record.IconData = typed.IconData

	return record, nil
}

// marshalRecord renders a Record as pretty-printed JSON with keys sorted,
// merging the known fields over whatever Extra carried (a link-time field
// always wins over a stale value inherited from Extra).
func marshalRecord(record *Record) ([]byte, error) {
	out := make(map[string]interface{}, len(record.Extra)+6)
	for key, value := range record.Extra {
		out[key] = value
	}

	out["schannel"] = record.SChannel
	out["fn"] = record.Fn
	if record.URL != "" {
		out["url"] = record.URL
	}
	if record.Files != nil {
		out["files"] = record.Files
	} else {
		out["files"] = []string{}
	}
	if record.Link != nil {
		out["link"] = record.Link
	}
	if record.IconData != "" {
		out["icondata"] = record.IconData
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode metadata record")
	}
	return data, nil
}
