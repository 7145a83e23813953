package models

// MEntity is one tracked market index.
type MEntity struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
}
