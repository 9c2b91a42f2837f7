package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func texts(us []Utterance) []string {
	out := make([]string, len(us))
	for i, u := range us {
		out[i] = u.Text
	}
	return out
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "keeps only client lines",
			input: "상담사 : 오늘 어땠어요?\n내담자 : 나는 친구 때문에 슬펐다.\n내담자 : 그는 나를 무시했다.\n",
			want:  []string{"나는 친구 때문에 슬펐다", "그는 나를 무시했다"},
		},
		{
			name:  "several sentences on one line",
			input: "내담자 : 엄마가 화났다. 나도 속상했어요! 왜 그럴까?",
			want:  []string{"엄마가 화났다", "나도 속상했어요", "왜 그럴까"},
		},
		{
			name:  "sentence continues on next client line",
			input: "내담자 : 나는 친구 때문에\n상담사 : 네.\n내담자 : 슬펐다.",
			want:  []string{"나는 친구 때문에 슬펐다"},
		},
		{
			name:  "blank and whitespace lines skipped",
			input: "내담자 :    \n\n내담자 : ...\n내담자 : 좋다.",
			want:  []string{"좋다"},
		},
		{
			name:  "decimal point is not a terminator",
			input: "내담자 : 3.5점 정도로 힘들다.",
			want:  []string{"3.5점 정도로 힘들다"},
		},
		{
			name:  "marker must start the line",
			input: "  내담자 : 들여쓰기.\n메모 내담자 : 인용.",
			want:  nil,
		},
		{
			name:  "crlf line endings",
			input: "내담자 : 하나.\r\n내담자 : 둘.\r\n",
			want:  []string{"하나", "둘"},
		},
		{
			name:  "text after the last marker",
			input: "내담자 : 내담자 : 반복.",
			want:  []string{"반복"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(strings.NewReader(tt.input), DefaultOptions())
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			gotTexts := texts(got)
			if len(gotTexts) != len(tt.want) {
				t.Fatalf("Extract() = %q, want %q", gotTexts, tt.want)
			}
			for i := range tt.want {
				if gotTexts[i] != tt.want[i] {
					t.Errorf("utterance[%d] = %q, want %q", i, gotTexts[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtract_IndexAndLine(t *testing.T) {
	input := "상담사 : 안녕하세요.\n내담자 : 하나. 둘.\n내담자 : 셋."
	got, err := Extract(strings.NewReader(input), DefaultOptions())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	wantLines := []int{2, 2, 3}
	for i, u := range got {
		if u.Index != i {
			t.Errorf("utterance[%d].Index = %d", i, u.Index)
		}
		if u.Line != wantLines[i] {
			t.Errorf("utterance[%d].Line = %d, want %d", i, u.Line, wantLines[i])
		}
		if u.Role != DefaultRole {
			t.Errorf("utterance[%d].Role = %q", i, u.Role)
		}
	}
}

func TestExtract_CustomRole(t *testing.T) {
	input := "Therapist : How are you?\nClient : I was sad because of my friend.\n"
	got, err := Extract(strings.NewReader(input), Options{Role: "Client"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) != 1 || got[0].Text != "I was sad because of my friend" {
		t.Errorf("Extract() = %+v", got)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test1.txt")
	if err := os.WriteFile(path, []byte("내담자 : 괜찮아요."), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path, DefaultOptions())
	if err != nil || len(got) != 1 {
		t.Fatalf("ReadFile() = %v, %v", got, err)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"), DefaultOptions()); err == nil {
		t.Error("ReadFile(missing) error = nil")
	}
}
