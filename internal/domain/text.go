package domain

// LocalizedText is a catalog text field in every supported language.
type LocalizedText struct {
	EN string `json:"en" yaml:"en"`
	ES string `json:"es" yaml:"es"`
	FR string `json:"fr" yaml:"fr"`
}

// English is the text used for keyword matching.
func (t LocalizedText) English() string { return t.EN }
