package service

import "testing"

func TestMessagePatchAssignments(t *testing.T) {
	content := "updated"
	duration := 17

	tests := []struct {
		name  string
		patch MessagePatch
		want  map[string]any
	}{
		{
			name:  "empty patch",
			patch: MessagePatch{},
			want:  map[string]any{},
		},
		{
			name:  "content only",
			patch: MessagePatch{Content: &content},
			want:  map[string]any{"content": "updated"},
		},
		{
			name:  "both fields",
			patch: MessagePatch{Content: &content, Duration: &duration},
			want:  map[string]any{"content": "updated", "duration": 17},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.patch.Assignments()
			if len(got) != len(tt.want) {
				t.Fatalf("Assignments() = %v, want %v", got, tt.want)
			}
			for column, value := range tt.want {
				if got[column] != value {
					t.Errorf("Assignments()[%q] = %v, want %v", column, got[column], value)
				}
			}
		})
	}
}

func TestMessagePatchZeroValuesAreExplicit(t *testing.T) {
	// Пустая строка — валидное присваивание, если поле задано.
	empty := ""
	got := MessagePatch{Content: &empty}.Assignments()

	if value, ok := got["content"]; !ok || value != "" {
		t.Errorf("Assignments() = %v, want explicit empty content", got)
	}
}
