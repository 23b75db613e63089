package main

import (
	"testing"
	"time"
)

func TestMainReturnsWhenRunIsSkipped(t *testing.T) {
	t.Setenv(skipRunEnv, "1")

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("main blocked despite the skip flag")
	}
}
