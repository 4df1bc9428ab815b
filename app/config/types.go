package config

// FeedConfig is one feed registration file. The filter pattern, when set,
// is a regular expression tested against lowercased item titles.
type FeedConfig struct {
	URL            string `yaml:"url"`
	Name           string `yaml:"name"`
	Filter         string `yaml:"filter"`
	Inactive       bool   `yaml:"inactive"`
	ExtractContent bool   `yaml:"extract_content"`
}
