package assistant

import "strings"

const (
	// BotName is the sender name of every synthesized reply
	BotName = "مساعد النظام"

	// WelcomeReply greets the user when a conversation starts without a keyword hit
	WelcomeReply = "مرحباً بك في شات الدعم! 💬 كيف يمكنني مساعدتك؟"
)

// KeywordReply pairs a trigger substring with its canned reply
type KeywordReply struct {
	Trigger string
	Reply   string
}

// KeywordTable is scanned in order; the first trigger found wins.
type KeywordTable []KeywordReply

// DefaultKeywordTable returns the built-in support replies
func DefaultKeywordTable() KeywordTable {
	return KeywordTable{
		{Trigger: "مشكلة", Reply: "أخبرني بالضبط ما المشكلة التي تواجهها؟"},
		{Trigger: "خطأ", Reply: "ما هي رسالة الخطأ التي تظهر لك؟"},
		{Trigger: "رفع", Reply: "لرفع الملفات: اضغط على المنطقة المنقطة أو اسحب الملفات"},
		{Trigger: "لا يعمل", Reply: "تأكد من أن السيرفر شغال وأن الملفات مسموح بها"},
		{Trigger: "شكراً", Reply: "العفو! 😊 هل تحتاج مساعدة أخرى؟"},
		{Trigger: "مساعدة", Reply: "أنا هنا لمساعدتك! ما هي مشكلتك؟"},
		{Trigger: "مرحبا", Reply: "مرحباً! 👋 كيف يمكنني مساعدتك اليوم؟"},
		{Trigger: "السلام", Reply: "وعليكم السلام! كيف يمكنني مساعدتك؟"},
		{Trigger: "شغال", Reply: "أهلاً! 🎉 سعيد لأن النظام شغال معك"},
		{Trigger: "كيف", Reply: "أخبرني بالتفصيل ما الذي تريد معرفته؟"},
	}
}

// Match returns the reply of the first entry whose trigger occurs in message.
func (t KeywordTable) Match(message string) (string, bool) {
	for _, kw := range t {
		if kw.Trigger == "" {
			continue
		}
		if strings.Contains(message, kw.Trigger) {
			return kw.Reply, true
		}
	}
	return "", false
}
