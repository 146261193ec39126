package filter

import (
	"maps"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/reelcheck/ratings"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// CompilerOption configures an expr compiler
type CompilerOption func(*ExprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) CompilerOption {
	return func(c *ExprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *ExprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// ExprCompiler compiles expr-lang expressions over search results
type ExprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...CompilerOption) *ExprCompiler {
	c := &ExprCompiler{
		helperFuncs: make(map[string]any, 8),
	}
	addHelperFunctions(c.helperFuncs)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles an expression into an executable filter
func (c *ExprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	// Check cache if enabled
	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Compile against a zero item so unknown names fail here, not at match time
	program, err := expr.Compile(expression,
		expr.Env(runtimeEnvironment(Item{}, c.helperFuncs)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	// Cache if enabled
	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Match evaluates the filter against an item. Evaluation errors count as
// no match.
func (f *exprFilter) Match(item Item) bool {
	result, err := expr.Run(f.program, runtimeEnvironment(item, f.helpers))
	if err != nil {
		return false
	}
	// AsBool guarantees the type
	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

func addHelperFunctions(env map[string]any) {
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}

// runtimeEnvironment exposes an item to expressions. Scores that are NA or
// not yet fetched read as 0; hasRating tells them apart.
func runtimeEnvironment(item Item, helpers map[string]any) map[string]any {
	env := make(map[string]any, len(helpers)+12)
	maps.Copy(env, helpers)

	// Summary fields
	env["Title"] = item.Title
	env["Year"] = parseYear(item.Year)
	env["ID"] = item.ExternalID
	env["HasPoster"] = item.PosterURL != ""
	env["HasRatings"] = item.HasRatings

	// Ratings, one variable per key
	for _, e := range item.Ratings.Entries() {
		env[exprName(e.Key)] = scoreValue(item, e.Score)
	}
	env["hasRating"] = func(key string) bool {
		if !item.HasRatings {
			return false
		}
		score, ok := item.Ratings.Get(key)
		return ok && !score.IsNA()
	}

	return env
}

func scoreValue(item Item, score ratings.Score) int {
	if !item.HasRatings {
		return 0
	}
	v, _ := score.Value()
	return v
}

// exprName turns a rating key like metacritic_user into metacriticUser.
func exprName(key string) string {
	parts := strings.Split(key, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// parseYear reads the leading year of values like "2019" or "2019–2021".
func parseYear(year string) int {
	if len(year) < 4 {
		return 0
	}
	n, err := strconv.Atoi(year[:4])
	if err != nil {
		return 0
	}
	return n
}
