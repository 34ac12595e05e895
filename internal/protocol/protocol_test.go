package protocol

import "testing"

func TestParse_Message(t *testing.T) {
	p := NewParser(true)
	actions := p.Parse(`Thinking aloud.
<MESSAGE to="Austria, Italy">
Shall we coordinate against Turkey?
</MESSAGE>
Done.`)

	if len(actions.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(actions.Messages))
	}
	msg := actions.Messages[0]
	if len(msg.Recipients) != 2 || msg.Recipients[0] != "Austria" || msg.Recipients[1] != "Italy" {
		t.Errorf("recipients = %v", msg.Recipients)
	}
	if msg.Content != "Shall we coordinate against Turkey?" {
		t.Errorf("content = %q", msg.Content)
	}
}

func TestParse_MultipleMessagesStaySeparate(t *testing.T) {
	p := NewParser(true)
	actions := p.Parse(`<MESSAGE to="France">one</MESSAGE><MESSAGE to="France">two</MESSAGE>`)

	if len(actions.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(actions.Messages))
	}
	if actions.Messages[0].Content != "one" || actions.Messages[1].Content != "two" {
		t.Errorf("messages = %+v", actions.Messages)
	}
}

func TestParse_MessagingDisabled(t *testing.T) {
	p := NewParser(false)
	actions := p.Parse(`<MESSAGE to="France">psst</MESSAGE><FILE name="void.md">note</FILE>`)

	if len(actions.Messages) != 0 {
		t.Errorf("expected no messages with messaging disabled, got %d", len(actions.Messages))
	}
	if len(actions.Files) != 1 {
		t.Errorf("expected file op to survive, got %d", len(actions.Files))
	}
}

func TestParse_FileDefaultMode(t *testing.T) {
	p := NewParser(true)

	// No mode attribute at all.
	actions := p.Parse(`<FILE name="x.md">hello</FILE>`)
	if len(actions.Files) != 1 {
		t.Fatalf("expected 1 file op, got %d", len(actions.Files))
	}
	if actions.Files[0].Mode != ModeAppend {
		t.Errorf("mode = %q, want append", actions.Files[0].Mode)
	}

	// Empty mode attribute is distinct syntax, same default.
	actions = p.Parse(`<FILE name="x.md" mode="">hello</FILE>`)
	if len(actions.Files) != 1 {
		t.Fatalf("expected 1 file op, got %d", len(actions.Files))
	}
	if actions.Files[0].Mode != ModeAppend {
		t.Errorf("mode with empty attr = %q, want append", actions.Files[0].Mode)
	}
}

func TestParse_FileModeLowercasedNotValidated(t *testing.T) {
	p := NewParser(true)
	actions := p.Parse(`<FILE name="x.md" mode="EDIT">hi</FILE><FILE name="y.md" mode="obliterate">z</FILE>`)

	if len(actions.Files) != 2 {
		t.Fatalf("expected 2 file ops, got %d", len(actions.Files))
	}
	if actions.Files[0].Mode != "edit" {
		t.Errorf("mode = %q, want edit", actions.Files[0].Mode)
	}
	// Unknown modes pass through; the executor rejects them.
	if actions.Files[1].Mode != "obliterate" {
		t.Errorf("mode = %q, want obliterate", actions.Files[1].Mode)
	}
}

func TestParse_MultilineAndCaseInsensitive(t *testing.T) {
	p := NewParser(true)
	actions := p.Parse(`<file name="notes.md" mode="append">
line one
line two
</file>`)

	if len(actions.Files) != 1 {
		t.Fatalf("expected 1 file op, got %d", len(actions.Files))
	}
	if actions.Files[0].Content != "line one\nline two" {
		t.Errorf("content = %q", actions.Files[0].Content)
	}
}

func TestParse_MalformedTagsIgnored(t *testing.T) {
	p := NewParser(true)
	actions := p.Parse(`<MESSAGE to="France">never closed
<FILE name=unquoted>nope</FILE>
<FILE>no name</FILE>`)

	if !actions.Empty() {
		t.Errorf("expected no actions from malformed input, got %+v", actions)
	}
}

func TestParse_NonGreedyMatching(t *testing.T) {
	p := NewParser(true)
	actions := p.Parse(`<FILE name="a.md">first</FILE> text <FILE name="b.md">second</FILE>`)

	if len(actions.Files) != 2 {
		t.Fatalf("expected 2 file ops, got %d", len(actions.Files))
	}
	if actions.Files[0].Content != "first" || actions.Files[1].Content != "second" {
		t.Errorf("files = %+v", actions.Files)
	}
}

func TestParse_RecipientTrimming(t *testing.T) {
	p := NewParser(true)
	actions := p.Parse(`<MESSAGE to=" England , , Russia ">hi</MESSAGE>`)

	if len(actions.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(actions.Messages))
	}
	got := actions.Messages[0].Recipients
	if len(got) != 2 || got[0] != "England" || got[1] != "Russia" {
		t.Errorf("recipients = %v", got)
	}
}
