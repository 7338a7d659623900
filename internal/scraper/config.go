package scraper

import "github.com/raysh454/skim/internal/tabular"

// DefaultPageURL points at the bundled demo server's rankings page so a
// default run is deterministic and offline. Point PageURL at any live page
// with the same tag structure to scrape it instead.
const DefaultPageURL = "http://localhost:9999/rankings"

// Config describes where the rankings page lives and the fixed tag
// structure of its table.
type Config struct {
	PageURL string `yaml:"page_url"`

	// Container selector: tag plus one attribute-equality predicate.
	ContainerTag  string `yaml:"container_tag"`
	ContainerAttr string `yaml:"container_attr"`
	ContainerVal  string `yaml:"container_val"`

	RowTag        string `yaml:"row_tag"`
	HeaderCellTag string `yaml:"header_cell_tag"`
	DataCellTag   string `yaml:"data_cell_tag"`

	// Arity is the cell count a row must have to count as a record.
	Arity int `yaml:"arity"`

	// KeyColumn, when set, reindexes the extracted table by that column.
	// Duplicate key values (tied ranks) are logged and kept.
	KeyColumn string `yaml:"key_column"`
}

func DefaultConfig() Config {
	return Config{
		PageURL:       DefaultPageURL,
		ContainerTag:  "div",
		ContainerAttr: "class",
		ContainerVal:  "rankings",
		RowTag:        "tr",
		HeaderCellTag: "th",
		DataCellTag:   "td",
		Arity:         3,
		KeyColumn:     "Rank",
	}
}

func (c Config) extractOptions() tabular.ExtractOptions {
	return tabular.ExtractOptions{
		Container: tabular.Selector{
			Tag:  c.ContainerTag,
			Attr: c.ContainerAttr,
			Val:  c.ContainerVal,
		},
		RowTag:        c.RowTag,
		HeaderCellTag: c.HeaderCellTag,
		DataCellTag:   c.DataCellTag,
		Arity:         c.Arity,
	}
}
