package config

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Link はナビゲーションやフッターのリンクです。
type Link struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

// CTA is a call-to-action button.
type CTA struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Stat is a headline number with its caption.
type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Card はアイコン付きの説明カード（StepCard・ベネフィット）です。
type Card struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Gradient    string `yaml:"gradient,omitempty"`
}

// Block is a titled paragraph followed by bullet points.
type Block struct {
	Title  string   `yaml:"title"`
	Intro  string   `yaml:"intro"`
	Points []string `yaml:"points"`
}

// PageContent はcontent.yamlの構造を定義
type PageContent struct {
	Site struct {
		Name    string `yaml:"name"`
		LogoAlt string `yaml:"logo_alt"`
	} `yaml:"site"`

	Navbar struct {
		Links []Link `yaml:"links"`
	} `yaml:"navbar"`

	Hero struct {
		Badge        string   `yaml:"badge"`
		Title        []string `yaml:"title"`
		Subtitle     string   `yaml:"subtitle"`
		PrimaryCTA   CTA      `yaml:"primary_cta"`
		SecondaryCTA CTA      `yaml:"secondary_cta"`
		Stats        []Stat   `yaml:"stats"`
	} `yaml:"hero"`

	Demo struct {
		Title     string `yaml:"title"`
		Subtitle  string `yaml:"subtitle"`
		FormTitle string `yaml:"form_title"`
	} `yaml:"demo"`

	Story struct {
		Title        string `yaml:"title"`
		Intro        string `yaml:"intro"`
		Problem      Block  `yaml:"problem"`
		Breakthrough Block  `yaml:"breakthrough"`
		Impact       struct {
			Title    string `yaml:"title"`
			Metrics  []Stat `yaml:"metrics"`
			Footnote string `yaml:"footnote"`
		} `yaml:"impact"`
	} `yaml:"story"`

	Guide struct {
		Title string `yaml:"title"`
		Intro string `yaml:"intro"`
		Steps []Card `yaml:"steps"`
	} `yaml:"guide"`

	Benefits struct {
		Title string `yaml:"title"`
		Intro string `yaml:"intro"`
		Items []Card `yaml:"items"`
	} `yaml:"benefits"`

	CTA struct {
		Title  string `yaml:"title"`
		Body   string `yaml:"body"`
		Button CTA    `yaml:"button"`
	} `yaml:"cta"`

	Footer struct {
		Links     []Link `yaml:"links"`
		Copyright string `yaml:"copyright"`
	} `yaml:"footer"`
}

var (
	cachedContent   *PageContent
	cachedContentMu sync.Mutex
)

// LoadPageContent はページ文言を読み込む。pathが空の場合は埋め込みのcontent.yamlを使う。
// 一度読み込んだ内容はキャッシュされる。
func LoadPageContent(path string) (*PageContent, error) {
	cachedContentMu.Lock()
	defer cachedContentMu.Unlock()

	if cachedContent != nil {
		return cachedContent, nil
	}

	content, err := ReadPageContent(path)
	if err != nil {
		return nil, err
	}
	cachedContent = content
	return cachedContent, nil
}

// ReadPageContent parses the page content without touching the cache.
func ReadPageContent(path string) (*PageContent, error) {
	data := defaultContent
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ページ文言ファイルの読み込みに失敗: %w", err)
		}
	}

	var content PageContent
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("YAMLのパースに失敗: %w", err)
	}
	if len(content.Navbar.Links) == 0 {
		return nil, fmt.Errorf("navbar.links が空です")
	}
	return &content, nil
}
