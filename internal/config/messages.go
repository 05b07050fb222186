package config

import (
	"sort"

	"github.com/himattm/contextline/internal/tier"
)

// DefaultLanguage is used when no language is configured or the configured
// one has no built-in message set.
const DefaultLanguage = "en"

var builtinPools = map[string]tier.Pools{
	"en": {
		tier.VeryLow:  {"fresh start", "plenty of room", "warming up", "all clear"},
		tier.Low:      {"cruising", "in the groove", "smooth sailing", "steady pace"},
		tier.Medium:   {"halfway there", "keep it focused", "getting cozy", "mind the scope"},
		tier.High:     {"filling up", "wrap up soon", "consider compacting", "running warm"},
		tier.Critical: {"almost full", "compact now", "time for /clear", "context overload"},
	},
	"es": {
		tier.VeryLow:  {"recién empezando", "mucho espacio", "todo despejado"},
		tier.Low:      {"a buen ritmo", "sin problemas", "navegando tranquilo"},
		tier.Medium:   {"a mitad de camino", "mantén el foco", "cuidado con el alcance"},
		tier.High:     {"se va llenando", "ve cerrando", "considera compactar"},
		tier.Critical: {"casi lleno", "compacta ya", "hora de /clear"},
	},
	"zh": {
		tier.VeryLow:  {"刚刚开始", "空间充足", "一切顺利"},
		tier.Low:      {"稳步前进", "状态良好", "轻松自如"},
		tier.Medium:   {"过半了", "保持专注", "注意范围"},
		tier.High:     {"快满了", "准备收尾", "考虑压缩"},
		tier.Critical: {"即将耗尽", "立即压缩", "该 /clear 了"},
	},
	"ja": {
		tier.VeryLow:  {"始まったばかり", "余裕たっぷり", "順調"},
		tier.Low:      {"いい調子", "快調", "スムーズ"},
		tier.Medium:   {"折り返し地点", "集中して", "範囲に注意"},
		tier.High:     {"埋まってきた", "そろそろまとめ", "圧縮を検討"},
		tier.Critical: {"ほぼ満杯", "今すぐ圧縮", "/clear の時間"},
	},
}

// Languages returns the built-in message set names, sorted.
func Languages() []string {
	langs := make([]string, 0, len(builtinPools))
	for lang := range builtinPools {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// HasLanguage reports whether lang has a built-in message set
func HasLanguage(lang string) bool {
	_, ok := builtinPools[lang]
	return ok
}

// MessageConfig overrides individual tier pools. Empty lists keep the
// language default.
type MessageConfig struct {
	VeryLow  []string `yaml:"very_low,omitempty"`
	Low      []string `yaml:"low,omitempty"`
	Medium   []string `yaml:"medium,omitempty"`
	High     []string `yaml:"high,omitempty"`
	Critical []string `yaml:"critical,omitempty"`
}

func (m MessageConfig) pools() tier.Pools {
	return tier.Pools{
		tier.VeryLow:  m.VeryLow,
		tier.Low:      m.Low,
		tier.Medium:   m.Medium,
		tier.High:     m.High,
		tier.Critical: m.Critical,
	}
}

func mergeMessages(base, overlay MessageConfig) MessageConfig {
	if len(overlay.VeryLow) > 0 {
		base.VeryLow = overlay.VeryLow
	}
	if len(overlay.Low) > 0 {
		base.Low = overlay.Low
	}
	if len(overlay.Medium) > 0 {
		base.Medium = overlay.Medium
	}
	if len(overlay.High) > 0 {
		base.High = overlay.High
	}
	if len(overlay.Critical) > 0 {
		base.Critical = overlay.Critical
	}
	return base
}
