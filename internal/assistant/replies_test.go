package assistant

import "testing"

func TestKeywordTableMatch(t *testing.T) {
	table := DefaultKeywordTable()

	tests := []struct {
		name    string
		message string
		want    string
		ok      bool
	}{
		{"single trigger", "عندي مشكلة", "أخبرني بالضبط ما المشكلة التي تواجهها؟", true},
		{"unanchored", "xxخطأyy", "ما هي رسالة الخطأ التي تظهر لك؟", true},
		{"multi word trigger", "الموقع لا يعمل", "تأكد من أن السيرفر شغال وأن الملفات مسموح بها", true},
		{"first entry wins over later", "كيف أحل مشكلة", "أخبرني بالضبط ما المشكلة التي تواجهها؟", true},
		{"table order not position in text", "شغال لكن فيه خطأ", "ما هي رسالة الخطأ التي تظهر لك؟", true},
		{"no trigger", "hello", "", false},
		{"empty message", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.Match(tt.message)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Match(%q) = %q, %v; want %q, %v", tt.message, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestKeywordTableCaseSensitive(t *testing.T) {
	table := KeywordTable{{Trigger: "help", Reply: "on it"}}

	if _, ok := table.Match("HELP me"); ok {
		t.Error("matching should be case-sensitive")
	}
	if got, ok := table.Match("please help"); !ok || got != "on it" {
		t.Errorf("Match = %q, %v", got, ok)
	}
}

func TestKeywordTableSkipsEmptyTrigger(t *testing.T) {
	table := KeywordTable{{Trigger: "", Reply: "always"}, {Trigger: "x", Reply: "x reply"}}

	if got, ok := table.Match("x"); !ok || got != "x reply" {
		t.Errorf("Match = %q, %v", got, ok)
	}
}
