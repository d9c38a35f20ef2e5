package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("StepwiseSelector", "Model")

	var nfe *NotFittedError
	if !As(err, &nfe) {
		t.Fatalf("expected NotFittedError, got %T", err)
	}
	if nfe.ModelName != "StepwiseSelector" || nfe.Method != "Model" {
		t.Errorf("unexpected fields: %+v", nfe)
	}
	if !strings.Contains(err.Error(), "not fitted") {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !strings.HasPrefix(err.Error(), "cinefit:") {
		t.Errorf("missing library prefix: %q", err.Error())
	}
}

func TestDimensionErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		axis int
		want string
	}{
		{name: "row axis", axis: 0, want: "rows"},
		{name: "column axis", axis: 1, want: "columns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError("Fit", 10, 7, tt.axis)
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("message %q does not name axis %q", err.Error(), tt.want)
			}
			var de *DimensionError
			if !As(err, &de) {
				t.Fatalf("expected DimensionError, got %T", err)
			}
			if de.Expected != 10 || de.Got != 7 {
				t.Errorf("unexpected fields: %+v", de)
			}
		})
	}
}

func TestRankDeficiencyErrorNamesColumn(t *testing.T) {
	err := NewRankDeficiencyError("linear.Fit", "runtime_copy", 4, 5)

	var rde *RankDeficiencyError
	if !As(err, &rde) {
		t.Fatalf("expected RankDeficiencyError, got %T", err)
	}
	if rde.Column != "runtime_copy" {
		t.Errorf("Column = %q, want runtime_copy", rde.Column)
	}
	if !strings.Contains(err.Error(), `"runtime_copy"`) {
		t.Errorf("message %q does not name the dependent column", err.Error())
	}
}

func TestMissingValueErrorThroughWrap(t *testing.T) {
	base := NewMissingValueError("Predict", "runtime", "input row lacks the column")
	wrapped := Wrap(base, "scoring candidate")

	var mve *MissingValueError
	if !As(wrapped, &mve) {
		t.Fatalf("MissingValueError lost through Wrap: %v", wrapped)
	}
	if mve.Column != "runtime" {
		t.Errorf("Column = %q, want runtime", mve.Column)
	}
}

func TestInvalidEncodingError(t *testing.T) {
	err := NewInvalidEncodingError("OneHotEncoder.Encode", "genre", "Musical")
	var iee *InvalidEncodingError
	if !As(err, &iee) {
		t.Fatalf("expected InvalidEncodingError, got %T", err)
	}
	if iee.Level != "Musical" || iee.Column != "genre" {
		t.Errorf("unexpected fields: %+v", iee)
	}
}

func TestWarnHandler(t *testing.T) {
	var got error
	SetWarningHandler(func(w error) { got = w })
	defer SetWarningHandler(func(w error) {})

	w := NewBoundsExceededWarning(93.2, 104.8, 0, 100)
	Warn(w)

	if got == nil {
		t.Fatal("warning handler was not called")
	}
	if !strings.Contains(got.Error(), "physical bounds") {
		t.Errorf("unexpected warning message: %q", got.Error())
	}
}

func TestWarnPrefersZerologSink(t *testing.T) {
	var handlerHits, sinkHits int
	SetWarningHandler(func(w error) { handlerHits++ })
	SetZerologWarnFunc(func(w error) { sinkHits++ })
	defer func() {
		SetZerologWarnFunc(nil)
		SetWarningHandler(func(w error) {})
	}()

	Warn(fmt.Errorf("sample warning"))

	if sinkHits != 1 || handlerHits != 0 {
		t.Errorf("sink hits = %d, handler hits = %d; want 1 and 0", sinkHits, handlerHits)
	}
}

func TestListwiseDeletionWarningMessage(t *testing.T) {
	w := NewListwiseDeletionWarning(615, 430, 0.30081, 0.2)
	msg := w.Error()
	if !strings.Contains(msg, "30.1%") {
		t.Errorf("message %q does not report the dropped fraction", msg)
	}
	if !strings.Contains(msg, "430 of 615") {
		t.Errorf("message %q does not report the kept counts", msg)
	}
}
