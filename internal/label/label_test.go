package label

import "testing"

func TestAddSumsWeights(t *testing.T) {
	got := Add(W(2), W(3))
	if got != W(5) {
		t.Fatalf("Add(W2,W3) = %v, want W5", got)
	}
}

func TestAddContractDominates(t *testing.T) {
	if got := Add(ContractLabel(), W(4)); got != ContractLabel() {
		t.Fatalf("Add(Contract,W4) = %v, want Contract", got)
	}
	if got := Add(W(4), ContractLabel()); got != ContractLabel() {
		t.Fatalf("Add(W4,Contract) = %v, want Contract", got)
	}
}

func TestIncrement(t *testing.T) {
	if got := Increment(W(0)); got != W(1) {
		t.Fatalf("Increment(W0) = %v, want W1", got)
	}
	if got := Increment(ContractLabel()); got != ContractLabel() {
		t.Fatalf("Increment(Contract) = %v, want Contract", got)
	}
}

func TestPathMaxPicksStrongestEdge(t *testing.T) {
	got := PathMax([]Label{W(1), W(3), W(2)})
	if got != W(3) {
		t.Fatalf("PathMax = %v, want W3", got)
	}
}

func TestPathMaxContractShortCircuits(t *testing.T) {
	got := PathMax([]Label{W(5), ContractLabel(), W(1)})
	if got != ContractLabel() {
		t.Fatalf("PathMax = %v, want Contract", got)
	}
}

func TestMaxPrefersContractAndLargerWeight(t *testing.T) {
	if got := Max(W(1), W(4)); got != W(4) {
		t.Fatalf("Max(W1,W4) = %v, want W4", got)
	}
	if got := Max(ContractLabel(), W(9)); got != ContractLabel() {
		t.Fatalf("Max(Contract,W9) = %v, want Contract", got)
	}
}
