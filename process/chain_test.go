package process

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/improc"
)

func TestChainRun(t *testing.T) {
	scale := newScaleContract(nil)
	chain, err := NewChain(
		Stage{Contract: scale},
		Stage{Contract: scale, Params: map[string]any{"Factor": 10.0}},
	)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}
	if chain.Len() != 2 {
		t.Errorf("Len() = %d, want 2", chain.Len())
	}

	src := grayImage(t, 1, 2, 3)
	got, err := chain.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if diff := cmp.Diff([]float64{20, 40, 60}, data(got)); diff != "" {
		t.Errorf("Run() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 2, 3}, data(src)); diff != "" {
		t.Errorf("Run() modified its input (-want +got):\n%s", diff)
	}
}

func TestChainEmpty(t *testing.T) {
	chain, err := NewChain()
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}
	src := grayImage(t, 5)
	got, err := chain.Run(context.Background(), src)
	if err != nil || got != src {
		t.Errorf("Run() = %v, %v, want the input unchanged", got, err)
	}
}

func TestNewChainErrors(t *testing.T) {
	unconnectable := New("Source",
		[]Input{{Name: ImagePort, Accepts: Images(improc.Float64Gray)}},
		[]Output{{Name: ImagePort}},
		func(_ context.Context, in []any) ([]any, error) { return in, nil },
	)

	tests := []struct {
		name    string
		stage   Stage
		wantErr error
	}{
		{"not connectable", Stage{Contract: unconnectable}, ErrNotConnectable},
		{"unknown param", Stage{Contract: newScaleContract(nil), Params: map[string]any{"Gain": 1.0}}, ErrUnknownInput},
		{"image param", Stage{Contract: newScaleContract(nil), Params: map[string]any{ImagePort: grayImage(t, 1)}}, ErrNotConfigurable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewChain(tt.stage); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewChain() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := NewChain(Stage{}); err == nil {
		t.Error("NewChain(Stage{}) error = nil, want error")
	}
}

func TestChainStopsOnError(t *testing.T) {
	failing := newScaleContract(func(context.Context, []any) ([]any, error) {
		return nil, errors.New("bad stage")
	})
	chain, err := NewChain(Stage{Contract: newScaleContract(nil)}, Stage{Contract: failing})
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}
	if _, err := chain.Run(context.Background(), grayImage(t, 1)); err == nil {
		t.Error("Run() error = nil, want error")
	}
}
