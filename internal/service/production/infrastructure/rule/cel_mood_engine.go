// internal/service/production/infrastructure/rule/cel_mood_engine.go
package rule

import (
	"fmt"
	"sync/atomic"

	"github.com/google/cel-go/cel"

	"mycelium/internal/service/production/domain"
)

// MoodRule 是一条 CEL 规则：表达式为真时得到对应的心情
type MoodRule struct {
	Mood domain.Mood
	Expr string
}

// DefaultMoodRules 按顺序匹配，第一条为真的规则生效
func DefaultMoodRules() []MoodRule {
	return []MoodRule{
		{Mood: domain.MoodGone, Expr: `status == "DISCARDED"`},
		{Mood: domain.MoodSick, Expr: `status == "CONTAMINATED"`},
		{Mood: domain.MoodProud, Expr: `status == "HARVESTED"`},
		{Mood: domain.MoodHappy, Expr: `status == "FRUITING"`},
		{Mood: domain.MoodSleepy, Expr: `status == "INOCULATED" || (status == "INCUBATING" && age_days < 3)`},
		{Mood: domain.MoodGrowing, Expr: `status == "INCUBATING"`},
	}
}

type compiledRule struct {
	mood    domain.Mood
	program cel.Program
}

// CELMoodEngine 是 domain.MoodEngine 的 cel-go 实现，规则集可以在运行时整体替换
type CELMoodEngine struct {
	env   *cel.Env
	rules atomic.Pointer[[]compiledRule]
}

func NewCELMoodEngine(rules []MoodRule) (*CELMoodEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("status", cel.StringType),
		cel.Variable("age_days", cel.IntType),
		cel.Variable("units", cel.IntType),
		cel.Variable("strain", cel.StringType),
	)
	if err != nil {
		return nil, err
	}
	e := &CELMoodEngine{env: env}
	if err := e.Reload(rules); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload 编译并替换规则集；任何一条编译失败时保留旧规则
func (e *CELMoodEngine) Reload(rules []MoodRule) error {
	if len(rules) == 0 {
		rules = DefaultMoodRules()
	}
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if !r.Mood.Valid() {
			return fmt.Errorf("unknown mood %q", r.Mood)
		}
		ast, iss := e.env.Compile(r.Expr)
		if iss != nil && iss.Err() != nil {
			return fmt.Errorf("mood rule %q: %w", r.Mood, iss.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return fmt.Errorf("mood rule %q must evaluate to bool, got %s", r.Mood, ast.OutputType())
		}
		prg, err := e.env.Program(ast)
		if err != nil {
			return fmt.Errorf("mood rule %q: %w", r.Mood, err)
		}
		compiled = append(compiled, compiledRule{mood: r.Mood, program: prg})
	}
	e.rules.Store(&compiled)
	return nil
}

// Evaluate 实现了 domain.MoodEngine 接口。没有规则命中时返回 growing
func (e *CELMoodEngine) Evaluate(facts domain.MoodFacts) (domain.Mood, error) {
	vars := map[string]interface{}{
		"status":   string(facts.Status),
		"age_days": int64(facts.AgeDays),
		"units":    int64(facts.Units),
		"strain":   facts.Strain,
	}
	for _, r := range *e.rules.Load() {
		out, _, err := r.program.Eval(vars)
		if err != nil {
			return "", fmt.Errorf("evaluate mood rule %q: %w", r.mood, err)
		}
		if matched, ok := out.Value().(bool); ok && matched {
			return r.mood, nil
		}
	}
	return domain.MoodGrowing, nil
}
