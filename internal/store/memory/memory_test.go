package memory

import (
	"context"
	"testing"

	"ecotrack/internal/core"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := New()
	got, err := s.Load(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("unexpected initial load: %v err=%v", got, err)
	}

	in := []core.Activity{
		{Date: "2024-01-01", Category: "Energy", Description: "LED", Impact: "Medium"},
		{Date: "2024-01-02", Category: "Water", Description: "", Impact: "Low"},
	}
	if err := s.Save(context.Background(), in); err != nil {
		t.Fatalf("save: %v", err)
	}
	in[0].Description = "mutated after save"

	got, _ = s.Load(context.Background())
	if len(got) != 2 || got[0].Description != "LED" || got[1].Category != "Water" {
		t.Fatalf("unexpected load: %+v", got)
	}
	if s.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", s.Saves())
	}
}

func TestMemoryStoreSeedIsCopied(t *testing.T) {
	seed := []core.Activity{{Date: "d", Category: "C"}}
	s := New(seed...)
	seed[0].Category = "X"

	got, _ := s.Load(context.Background())
	if got[0].Category != "C" {
		t.Fatalf("seed should be copied, got %+v", got)
	}
}
