package ratelimit

import (
	"testing"
	"time"
)

func TestExemptAddressAlwaysAllowed(t *testing.T) {
	l := New(DefaultWindow, 1, DefaultExempt())
	now := time.Now()
	for i := 0; i < 100; i++ {
		if !l.Allow("127.0.0.1", now) {
			t.Fatalf("exempt address refused on attempt %d", i)
		}
	}
}

func TestLimitEnforcedWithinWindow(t *testing.T) {
	l := New(60*time.Second, 30, nil)
	now := time.Now()

	for i := 0; i < 30; i++ {
		if !l.Allow("10.0.0.9", now) {
			t.Fatalf("connection %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.9", now) {
		t.Fatal("31st connection should be refused")
	}
	if l.Allow("10.0.0.9", now) {
		t.Fatal("32nd connection should also be refused")
	}
}

func TestWindowResetsAfterIdle(t *testing.T) {
	l := New(60*time.Second, 1, nil)
	t0 := time.Now()
	if !l.Allow("10.0.0.1", t0) {
		t.Fatal("first connection should be allowed")
	}
	if l.Allow("10.0.0.1", t0.Add(30*time.Second)) {
		t.Fatal("second connection within window should be refused")
	}
	if !l.Allow("10.0.0.1", t0.Add(61*time.Second)) {
		t.Fatal("connection after window elapses should be allowed")
	}
}

func TestDifferentAddressesTrackedIndependently(t *testing.T) {
	l := New(60*time.Second, 1, nil)
	now := time.Now()
	if !l.Allow("1.1.1.1", now) {
		t.Fatal("first address should be allowed")
	}
	if !l.Allow("2.2.2.2", now) {
		t.Fatal("second address should be allowed independently")
	}
}
