package internal

import (
	"testing"
)

func TestInputTextsOrder(t *testing.T) {
	sess := NewTestSession("chatgpt_abc", PlatformChatGPT, 3)

	texts := sess.InputTexts()
	if len(texts) != 3 {
		t.Fatalf("len = %d, want 3", len(texts))
	}
	for i, text := range texts {
		if text != sess.Inputs[i].Text {
			t.Errorf("texts[%d] = %q, out of submission order", i, text)
		}
	}
}

func TestInputTextsEmpty(t *testing.T) {
	sess := &ConversationSession{SessionID: "x", Platform: PlatformClaude}
	if got := sess.InputTexts(); len(got) != 0 {
		t.Errorf("InputTexts() = %v, want empty", got)
	}
}
