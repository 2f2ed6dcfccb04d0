package dto

import (
	"encoding/json"
	"fmt"
)

// Instance is one row of the public instance directory. The directory is a
// JSON array of [name, details] pairs.
type Instance struct {
	Name    string
	Details InstanceDetails
}

// InstanceDetails holds the fields of an instance row used for selection.
type InstanceDetails struct {
	Type string `json:"type"`
	URI  string `json:"uri"`

	// API is null when the directory has not checked the instance.
	API *bool `json:"api"`
}

// UnmarshalJSON decodes a [name, details] pair.
func (i *Instance) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("instance row has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &i.Name); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &i.Details)
}

// UsableAPI reports whether the instance serves the API over https.
func (i *Instance) UsableAPI() bool {
	return i.Details.Type == "https" && i.Details.API != nil && *i.Details.API && i.Details.URI != ""
}
