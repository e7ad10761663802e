package batch

import (
	"errors"
	"fmt"
	"math"

	"github.com/karupanerura/calculator/internal/defaults"
	"github.com/karupanerura/calculator/internal/expression"
	"github.com/karupanerura/calculator/internal/format"
	"github.com/karupanerura/calculator/internal/types"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

type Entry struct {
	Name       string
	Expression string
	Fold       string
	Operands   []float64
}

type entryDef struct {
	Name       string    `json:"name" mapstructure:"name"`
	Expression *string   `json:"expression" mapstructure:"expression"`
	Fold       string    `json:"fold" mapstructure:"fold"`
	Operands   []float64 `json:"operands" mapstructure:"operands"`
}

// DecodeEntry accepts either a bare expression string or a map with
// "expression", or "fold" and "operands".
func DecodeEntry(v any) (*Entry, error) {
	switch vv := v.(type) {
	case string:
		return &Entry{Expression: vv}, nil

	case map[string]any:
		var def entryDef
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &def,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(vv); err != nil {
			return nil, fmt.Errorf("mapstructure.Decode: %w", err)
		}
		return def.compile()

	default:
		return nil, fmt.Errorf("unexpected entry type: %T", v)
	}
}

func (d *entryDef) compile() (*Entry, error) {
	switch {
	case d.Expression != nil && d.Fold != "":
		return nil, fmt.Errorf("expression and fold are exclusive")
	case d.Expression != nil:
		if d.Operands != nil {
			return nil, fmt.Errorf("operands: only allowed with fold")
		}
		return &Entry{Name: d.Name, Expression: *d.Expression}, nil
	case d.Fold != "":
		return &Entry{Name: d.Name, Fold: d.Fold, Operands: d.Operands}, nil
	default:
		return nil, fmt.Errorf("expression or fold: required")
	}
}

func (e *Entry) IsFold() bool {
	return e.Fold != ""
}

func (e *Entry) Evaluate() *Result {
	r := &Result{Entry: e}
	if e.IsFold() {
		r.Value, r.Err = defaults.Fold(e.Fold, e.Operands)
		return r
	}

	expr, err := expression.ParseExpr(e.Expression)
	if err != nil {
		r.Err = err
		return r
	}
	r.RPN = expr.RPN()
	r.Value, r.Err = expr.Evaluate()
	return r
}

type Result struct {
	Entry *Entry
	RPN   string
	Value float64
	Err   error
}

const (
	StateSucceeded = "SUCCEEDED"
	StateFailed    = "FAILED"
)

type Record struct {
	Name       string    `json:"name,omitempty"`
	Expression string    `json:"expression,omitempty"`
	Fold       string    `json:"fold,omitempty"`
	Operands   []float64 `json:"operands,omitempty"`
	RPN        string    `json:"rpn,omitempty"`
	State      string    `json:"state"`
	Result     *float64  `json:"result,omitempty"`
	Formatted  string    `json:"formatted,omitempty"`
	Error      any       `json:"error,omitempty"`
}

func (r *Result) Record(opts format.Options) *Record {
	rec := &Record{
		Name:       r.Entry.Name,
		Expression: r.Entry.Expression,
		Fold:       r.Entry.Fold,
		Operands:   r.Entry.Operands,
		RPN:        r.RPN,
	}
	if r.Err != nil {
		rec.State = StateFailed
		rec.Error = renderError(r.Err)
		return rec
	}

	rec.State = StateSucceeded
	rec.Formatted = opts.Format(r.Value)
	if !math.IsInf(r.Value, 0) && !math.IsNaN(r.Value) {
		// JSON has no representation for non-finite numbers
		rec.Result = lo.ToPtr(r.Value)
	}
	return rec
}

func renderError(err error) map[string]any {
	o := map[string]any{
		"message": expression.Message(err),
	}

	var exception types.Exception
	if errors.As(err, &exception) {
		if m, ok := exception.Exception().(map[string]any); ok {
			return lo.Assign(m, o)
		}
	}
	return o
}
