package storage

import (
	"sync"
	"testing"

	"github.com/freekieb7/coyote/session"
	"github.com/freekieb7/coyote/test"
)

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	sess := session.NewWithID("abc")

	test.AssertNoError(t, store.Save(sess))
	if !store.Has("abc") {
		t.Fatal("session not saved")
	}

	found, err := store.Get("abc")
	test.AssertNoError(t, err)
	test.AssertEqual(t, "abc", found.ID())

	test.AssertNoError(t, store.Delete("abc"))
	_, err = store.Get("abc")
	test.AssertErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStoreClose(t *testing.T) {
	store := NewMemorySessionStore()
	test.AssertNoError(t, store.Save(session.New()))

	test.AssertNoError(t, store.Close())

	_, err := store.Get("anything")
	test.AssertErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStoreConcurrent(t *testing.T) {
	var store SessionStore = NewMemorySessionStore()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			sess := session.New()
			if err := store.Save(sess); err != nil {
				t.Error(err)
				return
			}
			if !store.Has(sess.ID()) {
				t.Errorf("session %s missing", sess.ID())
			}
			_ = store.Delete(sess.ID())
		}()
	}
	wg.Wait()
}
