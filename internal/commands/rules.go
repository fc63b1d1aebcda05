package commands

import "regexp"

// Section labels and orders.
const (
	SectionNavigation    = "🧭 Navigation"
	SectionDeployment    = "🚀 Deployment"
	SectionTesting       = "🧪 Testing"
	SectionGitHub        = "🐙 GitHub"
	SectionPlanning      = "📋 Planning"
	SectionAgents        = "🤖 Agents & Skills"
	SectionPanels        = "🎛 Panels & Menus"
	SectionMaintenance   = "🔄 Maintenance"
	SectionConfiguration = "⚙️ Configuration"
	SectionOther         = "📦 Other"

	OtherOrder = 99
)

// Rule assigns a section to names matching any of its patterns.
type Rule struct {
	Section  string
	Order    int
	Patterns []*regexp.Regexp
}

// NewRule compiles patterns into a rule. It panics on an invalid pattern,
// like regexp.MustCompile.
func NewRule(section string, order int, patterns ...string) Rule {
	r := Rule{Section: section, Order: order}
	for _, p := range patterns {
		r.Patterns = append(r.Patterns, regexp.MustCompile(p))
	}
	return r
}

// Matches reports whether any pattern matches name.
func (r Rule) Matches(name string) bool {
	for _, re := range r.Patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Rules is evaluated in order; the first matching rule wins.
type Rules []Rule

// catchAll is used when no rule matches, so classification is total even
// for rule lists without a catch-all.
var catchAll = NewRule(SectionOther, OtherOrder, `.*`)

var defaultRules = Rules{
	NewRule(SectionNavigation, 1, `^menu$`, `^ccasp-menu$`, `^help$`, `^home$`),
	NewRule(SectionDeployment, 2, `^deploy`, `-deploy$`, `^rollback`),
	NewRule(SectionTesting, 3, `^test`, `^e2e`, `^tunnel`),
	NewRule(SectionGitHub, 4, `^github`, `^gh-`, `^issue`, `^pr-`),
	NewRule(SectionPlanning, 5, `^phase`, `^plan`, `^roadmap`, `^task`),
	NewRule(SectionAgents, 6, `^agent`, `^skill`, `^hook`, `^create-`),
	NewRule(SectionPanels, 7, `menu`, `panel`, `dashboard`),
	NewRule(SectionMaintenance, 8, `^update`, `^sync`, `^refactor`, `^audit`, `^clean`),
	NewRule(SectionConfiguration, 9, `^config`, `^settings`, `^setup`, `^init`),
	catchAll,
}

// DefaultRules returns a copy of the built-in rule list.
func DefaultRules() Rules {
	out := make(Rules, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// Classify returns the section of the first rule matching name.
func (rs Rules) Classify(name string) (section string, order int) {
	for _, r := range rs {
		if r.Matches(name) {
			return r.Section, r.Order
		}
	}
	return catchAll.Section, catchAll.Order
}

// Classify classifies name with the default rules.
func Classify(name string) (section string, order int) {
	return defaultRules.Classify(name)
}
