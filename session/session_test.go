package session

import (
	"testing"

	"github.com/freekieb7/coyote/test"
	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	a := New()
	b := New()

	if a.ID() == b.ID() {
		t.Error("session ids should be unique")
	}
	if _, err := uuid.Parse(a.ID()); err != nil {
		t.Errorf("session id %q is not a uuid: %v", a.ID(), err)
	}
}

func TestSessionAttributes(t *testing.T) {
	sess := NewWithID("id")
	test.AssertEqual(t, "id", sess.ID())

	sess.Set("user", "gugu")
	sess.Set("visits", 3)

	if !sess.Has("user") {
		t.Error("expected user attribute")
	}
	value, found := sess.Get("visits")
	if !found {
		t.Fatal("visits not found")
	}
	test.AssertEqual(t, 3, value.(int))

	all := sess.All()
	all["user"] = "changed"
	value, _ = sess.Get("user")
	test.AssertEqual(t, "gugu", value.(string))

	sess.Remove("user")
	if sess.Has("user") {
		t.Error("user should be removed")
	}

	sess.Clear()
	test.AssertEqual(t, 0, len(sess.All()))
}
