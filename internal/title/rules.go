package title

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"
)

// Platform is a named editor whose pages are recognised by hostname.
type Platform struct {
	Name      string   `yaml:"name"`
	Origin    string   `yaml:"origin"`
	Selectors []string `yaml:"selectors"`
}

// Rules maps hostnames to ordered title selectors. Platforms are tried in
// order; the first whose Origin is a substring of the hostname wins.
type Rules struct {
	Platforms []Platform `yaml:"platforms"`
	Default   []string   `yaml:"default"`
}

// DefaultRules returns the built-in selector table.
func DefaultRules() Rules {
	return Rules{
		Platforms: []Platform{
			{
				Name:   "WeChat Official Accounts",
				Origin: "mp.weixin.qq.com",
				Selectors: []string{
					"#title",
					".rich_media_title",
					`input[placeholder*="标题"]`,
					`input[placeholder*="请输入标题"]`,
					`.weui-desktop-form__input[placeholder*="标题"]`,
				},
			},
			{
				Name:   "Xiumi",
				Origin: "xiumi.us",
				Selectors: []string{
					"#title",
					".title-input",
					`input[placeholder*="标题"]`,
					".editor-title input",
				},
			},
			{
				Name:   "135 Editor",
				Origin: "135editor.com",
				Selectors: []string{
					"#title",
					".title-input",
					`input[name="title"]`,
					`input[placeholder*="标题"]`,
					".article-title input",
				},
			},
		},
		Default: []string{
			`input[placeholder*="标题"]`,
			`input[placeholder*="title"]`,
			`input[name="title"]`,
			"#title",
			".title",
			".article-title",
			"h1[contenteditable]",
			`div[contenteditable][placeholder*="标题"]`,
		},
	}
}

// LoadRules reads a YAML rules file and validates every selector.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read title rules: %w", err)
	}

	var rules Rules
	if err = yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse title rules %s: %w", path, err)
	}

	if err = rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid title rules %s: %w", path, err)
	}

	return rules, nil
}

// Validate checks that every platform has an origin and every selector compiles.
func (r Rules) Validate() error {
	var errs []error

	for i, p := range r.Platforms {
		if strings.TrimSpace(p.Origin) == "" {
			errs = append(errs, fmt.Errorf("platform %d (%s): origin is required", i, p.Name))
		}
		if len(p.Selectors) == 0 {
			errs = append(errs, fmt.Errorf("platform %d (%s): at least one selector is required", i, p.Name))
		}
		errs = append(errs, compileAll(p.Selectors)...)
	}
	errs = append(errs, compileAll(r.Default)...)

	return errors.Join(errs...)
}

func compileAll(selectors []string) []error {
	var errs []error
	for _, sel := range selectors {
		if _, err := cascadia.Compile(sel); err != nil {
			errs = append(errs, fmt.Errorf("selector %q: %w", sel, err))
		}
	}
	return errs
}

// Match returns the platform for hostname, if any.
func (r Rules) Match(hostname string) (Platform, bool) {
	for _, p := range r.Platforms {
		if p.Origin != "" && strings.Contains(hostname, p.Origin) {
			return p, true
		}
	}
	return Platform{}, false
}

// SelectorsFor returns the ordered selector list for hostname.
func (r Rules) SelectorsFor(hostname string) []string {
	if p, ok := r.Match(hostname); ok {
		return p.Selectors
	}
	return r.Default
}
