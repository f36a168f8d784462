package model

// Stock describes one member of the configured symbol universe.
// DataID and Dataset address the upstream provider; they never leave the
// process.
type Stock struct {
	Symbol  string `yaml:"symbol" json:"symbol"`
	DataID  string `yaml:"data_id" json:"-"`
	Name    string `yaml:"name" json:"name"`
	Market  string `yaml:"market" json:"market"`
	Dataset string `yaml:"dataset" json:"-"`
}
