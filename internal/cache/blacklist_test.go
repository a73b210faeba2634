package cache

import (
	"context"
	"testing"
	"time"
)

func TestBlacklistMemoryMode(t *testing.T) {
	bl := NewTokenBlacklist("")
	defer bl.Close()
	ctx := context.Background()

	if bl.Contains(ctx, "token-a") {
		t.Fatal("fresh blacklist should not contain anything")
	}

	bl.Add(ctx, "token-a", time.Now().Add(time.Minute))
	if !bl.Contains(ctx, "token-a") {
		t.Error("token-a should be blacklisted")
	}
	if bl.Contains(ctx, "token-b") {
		t.Error("token-b was never added")
	}
}

func TestBlacklistExpiredTokenIgnored(t *testing.T) {
	bl := NewTokenBlacklist("")
	defer bl.Close()
	ctx := context.Background()

	bl.Add(ctx, "stale", time.Now().Add(-time.Minute))
	if bl.Contains(ctx, "stale") {
		t.Error("already-expired token should not be stored")
	}
}

func TestBlacklistEntryExpires(t *testing.T) {
	bl := NewTokenBlacklist("")
	defer bl.Close()
	ctx := context.Background()

	bl.Add(ctx, "short", time.Now().Add(20*time.Millisecond))
	if !bl.Contains(ctx, "short") {
		t.Fatal("token should be blacklisted while unexpired")
	}
	time.Sleep(30 * time.Millisecond)
	if bl.Contains(ctx, "short") {
		t.Error("token should drop out after expiry")
	}
}

func TestBlacklistCloseStopsSweeper(t *testing.T) {
	bl := NewTokenBlacklist("")
	bl.Add(context.Background(), "token", time.Now().Add(time.Minute))

	done := make(chan struct{})
	go func() {
		bl.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}

	// Lookups still work after shutdown; only the sweeper is gone.
	if !bl.Contains(context.Background(), "token") {
		t.Error("entry lost on Close")
	}
}
