package seed

// Entry is one starter link in the seed yaml file.
type Entry struct {
	URL    string `yaml:"url"`
	Name   string `yaml:"name"`
	Handle string `yaml:"handle"`
}

// Config is the root structure of the seed file: a flat list of
// starter links.
type Config []Entry
