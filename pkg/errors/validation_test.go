package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Simple", "42", false},
		{"Composite", "19031-precinct-7", false},
		{"Unicode", "área-7", false},
		{"Empty", "", true},
		{"ControlChar", "a\x01b", true},
		{"Newline", "a\nb", true},
		{"TooLong", strings.Repeat("x", 257), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidGraph) {
				t.Errorf("ValidateNodeID(%q) code = %s", tt.id, GetCode(err))
			}
		})
	}
}

func TestValidatePartLabel(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		wantErr bool
	}{
		{"Simple", "A", false},
		{"Numeric", "12", false},
		{"Empty", "", true},
		{"ControlChar", "A\tB", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePartLabel(tt.label)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePartLabel(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidAssignment) {
				t.Errorf("ValidatePartLabel(%q) code = %s", tt.label, GetCode(err))
			}
		})
	}
}

func TestValidateUpdaterName(t *testing.T) {
	tests := []struct {
		name    string
		updater string
		wantErr bool
	}{
		{"Simple", "sizes", false},
		{"Underscored", "cut_edges", false},
		{"Dotted", "tally.pop", false},
		{"Empty", "", true},
		{"LeadingDigit", "2fast", true},
		{"Spaces", "cut edges", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpdaterName(tt.updater)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUpdaterName(%q) error = %v, wantErr %v", tt.updater, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"Relative", "data/graph.json", false},
		{"Absolute", "/tmp/graph.json", false},
		{"Empty", "", true},
		{"Traversal", "../secrets", true},
		{"Backslash", `data\graph.json`, true},
		{"NullByte", "graph\x00.json", true},
		{"TooLong", strings.Repeat("a/", 300), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %s", tt.path, GetCode(err))
			}
		})
	}
}
