package updater

import (
	"encoding/json"
	"os"
)

// LoadLastRun reads the last run summary from a JSON file. Returns nil
// without error if the file doesn't exist.
func LoadLastRun(filePath string) (*RunSummary, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var summary RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SaveLastRun writes the run summary to a JSON file.
func SaveLastRun(filePath string, summary *RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
