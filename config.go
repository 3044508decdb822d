package wikicorpus

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes a corpus build. Zero values mean the defaults.
type Config struct {
	Output      string `yaml:"output"`
	Articles    int    `yaml:"articles"`
	Multistream bool   `yaml:"multistream"`
	Workers     int    `yaml:"workers"`

	DumpURL        string `yaml:"dump_url"`
	DumpFile       string `yaml:"dump_file"`
	IndexURL       string `yaml:"index_url"`
	IndexFile      string `yaml:"index_file"`
	CorpusFile     string `yaml:"corpus_file"`
	ReportFreq     int64  `yaml:"report_freq"`
	MinArticleToks int    `yaml:"min_article_tokens"`
	MinTokenLen    int    `yaml:"min_token_len"`
	MaxTokenLen    int    `yaml:"max_token_len"`
}

// DefaultConfig matches DownloadCorpus.
func DefaultConfig() Config {
	return Config{
		Output:   "../data",
		Articles: DefaultArticles,
		Workers:  4,
	}
}

// ReadConfig decodes a YAML config on top of the defaults.
func ReadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&c); err != nil && err != io.EOF {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return ReadConfig(f)
}

func orString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orInt(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

// Extractor builds the Extractor this config describes.
func (c Config) Extractor() *Extractor {
	var e *Extractor
	if c.Multistream {
		e = NewMultistreamExtractor(c.Workers)
		e.Dump.URL = orString(c.DumpURL, MultistreamURL)
		e.Dump.Filename = orString(c.DumpFile, MultistreamFilename)
		e.Index.URL = orString(c.IndexURL, MultistreamIndexURL)
		e.Index.Filename = orString(c.IndexFile, MultistreamIndexFilename)
	} else {
		e = NewExtractor()
		e.Dump.URL = orString(c.DumpURL, DumpURL)
		e.Dump.Filename = orString(c.DumpFile, DumpFilename)
	}
	e.CorpusFilename = c.CorpusFile
	e.ReportFreq = c.ReportFreq

	if c.MinArticleToks > 0 || c.MinTokenLen > 0 || c.MaxTokenLen > 0 {
		workers := c.Workers
		tok := Tokenizer{
			MinLen: orInt(c.MinTokenLen, DefaultMinTokenLen),
			MaxLen: orInt(c.MaxTokenLen, DefaultMaxTokenLen),
		}
		minArticle := orInt(c.MinArticleToks, DefaultMinArticleTokens)
		e.Open = func(dumpPath, indexPath string) (ArticleSource, error) {
			corpus, err := OpenDump(dumpPath, indexPath, workers)
			if err != nil {
				return nil, err
			}
			corpus.Tokenizer = tok
			corpus.MinArticleTokens = minArticle
			return corpus, nil
		}
	}
	return e
}
