package tips

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed tips.yaml
var tipsYAML []byte

// tipsPerDay is how many tips rotate into view each day.
const tipsPerDay = 5

// Tip is one coaching tip from the seeded catalog.
type Tip struct {
	Index int    `json:"index" yaml:"-"`
	Text  string `json:"text" yaml:"text"`
}

// Catalog holds the full tip list and serves the day's rotation.
type Catalog struct {
	tips []Tip
	now  func() time.Time
}

// NewCatalog loads the embedded tip seed.
func NewCatalog() (*Catalog, error) {
	var seed struct {
		Tips []Tip `yaml:"tips"`
	}
	if err := yaml.Unmarshal(tipsYAML, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse tips seed: %w", err)
	}
	if len(seed.Tips) == 0 {
		return nil, fmt.Errorf("tips seed is empty")
	}
	for i := range seed.Tips {
		seed.Tips[i].Index = i
	}
	return &Catalog{tips: seed.Tips, now: time.Now}, nil
}

// TodayTips returns today's slice of the rotation. The window advances by
// tipsPerDay positions per calendar day so consecutive days do not repeat
// until the catalog wraps.
func (c *Catalog) TodayTips() []Tip {
	daySeed := int(c.now().UTC().Unix() / (24 * 60 * 60))
	start := (daySeed * tipsPerDay) % len(c.tips)
	out := make([]Tip, 0, tipsPerDay)
	for i := 0; i < tipsPerDay && i < len(c.tips); i++ {
		out = append(out, c.tips[(start+i)%len(c.tips)])
	}
	return out
}

// Len returns the catalog size.
func (c *Catalog) Len() int {
	return len(c.tips)
}
