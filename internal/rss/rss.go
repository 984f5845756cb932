package rss

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source is one feed inside a category.
type Source struct {
	Category string `yaml:"-"`
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
}

// Category groups sources. Order in the slice is rendering order.
type Category struct {
	Name    string   `yaml:"name"`
	Sources []Source `yaml:"sources"`
}

// SourcesConfig is YAML config structure
// categories:
//   - name: "💲 财经热点"
//     sources:
//       - name: 华尔街见闻
//         url: https://...
type SourcesConfig struct {
	Categories []Category `yaml:"categories"`
}

var ErrNoSources = errors.New("no feed sources configured")

// LoadSources reads the category → source → URL table from a YAML file.
func LoadSources(path string) ([]Category, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg SourcesConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(cfg.Categories) == 0 {
		return nil, ErrNoSources
	}

	for i := range cfg.Categories {
		c := &cfg.Categories[i]
		if c.Name == "" {
			return nil, fmt.Errorf("category #%d has no name", i+1)
		}
		for j := range c.Sources {
			s := &c.Sources[j]
			if s.URL == "" {
				return nil, fmt.Errorf("source %q in %q has no url", s.Name, c.Name)
			}
			if s.Name == "" {
				s.Name = s.URL
			}
			s.Category = c.Name
		}
	}
	return cfg.Categories, nil
}

// LoadSourcesOrDefault falls back to the built-in table when path does not exist.
func LoadSourcesOrDefault(path string) ([]Category, error) {
	cats, err := LoadSources(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSources(), nil
	}
	return cats, err
}

// DefaultSources is the built-in table: daily headlines, finance, livelihood policy.
func DefaultSources() []Category {
	cats := []Category{
		{
			Name: "🔥 每日综合热点",
			Sources: []Source{
				{Name: "央视新闻", URL: "https://news.cctv.com/rss/news.shtml"},
				{Name: "人民日报", URL: "https://www.people.com.cn/rss/201905/17/c1008-40359834.html"},
				{Name: "新华社", URL: "http://www.xinhuanet.com/rss.xml"},
			},
		},
		{
			Name: "💲 财经热点",
			Sources: []Source{
				{Name: "华尔街见闻", URL: "https://dedicated.wallstreetcn.com/rss.xml"},
				{Name: "东方财富", URL: "http://rss.eastmoney.com/rss_partener.xml"},
			},
		},
		{
			Name: "🏠 民生政策",
			Sources: []Source{
				{Name: "中国政府网", URL: "http://www.gov.cn/fuwu/bmfw/rss.htm"},
				{Name: "中新网民生", URL: "https://www.chinanews.com.cn/rss/minsheng.xml"},
			},
		},
	}
	for i := range cats {
		for j := range cats[i].Sources {
			cats[i].Sources[j].Category = cats[i].Name
		}
	}
	return cats
}
