package bean

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestRecordUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Record
	}{
		{
			name: "well formed",
			data: `{"name":"a","dependencies":["b"],"type":"com.acme.A","scope":"singleton","categories":["service"],"source":"Project","definitionSource":"A.java","isAdditionalBean":true,"additionalBeanSource":"scan"}`,
			want: Record{
				Name: "a", Dependencies: []string{"b"}, Type: "com.acme.A", Scope: "singleton",
				Categories: []string{"service"}, Source: "Project", DefinitionSource: "A.java",
				IsAdditionalBean: true, AdditionalBeanSource: "scan",
			},
		},
		{
			name: "numeric name",
			data: `{"name":42,"dependencies":["b"]}`,
			want: Record{Dependencies: []string{"b"}},
		},
		{
			name: "non-string dependencies skipped",
			data: `{"name":"a","dependencies":["b",1,null,{"x":1},"c"]}`,
			want: Record{Name: "a", Dependencies: []string{"b", "c"}},
		},
		{
			name: "mistyped fields left empty",
			data: `{"name":"a","dependencies":"b","categories":{},"isAdditionalBean":"true","scope":3}`,
			want: Record{Name: "a"},
		},
		{
			name: "null",
			data: `null`,
			want: Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Record
			if err := json.Unmarshal([]byte(tt.data), &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got.Name != tt.want.Name || got.Type != tt.want.Type || got.Scope != tt.want.Scope ||
				got.Source != tt.want.Source || got.DefinitionSource != tt.want.DefinitionSource ||
				got.IsAdditionalBean != tt.want.IsAdditionalBean || got.AdditionalBeanSource != tt.want.AdditionalBeanSource {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if !slices.Equal(got.Dependencies, tt.want.Dependencies) {
				t.Errorf("dependencies = %v, want %v", got.Dependencies, tt.want.Dependencies)
			}
			if !slices.Equal(got.Categories, tt.want.Categories) {
				t.Errorf("categories = %v, want %v", got.Categories, tt.want.Categories)
			}
		})
	}
}

func TestRecordUnmarshalJSONRejectsNonObjects(t *testing.T) {
	for _, data := range []string{`"a"`, `[1]`, `7`} {
		var r Record
		if err := json.Unmarshal([]byte(data), &r); err == nil {
			t.Errorf("Unmarshal(%s) succeeded, want error", data)
		}
	}
}
