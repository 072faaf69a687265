package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubSender struct {
	calls int
	to    string
	err   error
}

func (s *stubSender) Send(_ context.Context, to, _, _, _ string) error {
	s.calls++
	s.to = to
	return s.err
}

func TestProcess(t *testing.T) {
	ctx := context.Background()
	job := []byte(`{"to":"ana@example.com","subject":"Registration Confirmed for Puppets","text":"Hi Ana"}`)

	s := &stubSender{}
	res, err := process(ctx, s, job, false)
	assert.NoError(t, err)
	assert.Equal(t, ack, res)
	assert.Equal(t, "ana@example.com", s.to)

	res, err = process(ctx, s, []byte(`{not json`), false)
	assert.Error(t, err)
	assert.Equal(t, drop, res)

	res, err = process(ctx, s, []byte(`{"to":"ana@example.com"}`), false)
	assert.ErrorIs(t, err, errIncompleteJob)
	assert.Equal(t, drop, res)
	assert.Equal(t, 1, s.calls)

	failing := &stubSender{err: errors.New("mailgun 502")}
	res, _ = process(ctx, failing, job, false)
	assert.Equal(t, retry, res)
	res, _ = process(ctx, failing, job, true)
	assert.Equal(t, drop, res)
}
