package pdftext

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeGarbageReturnsDecodeError(t *testing.T) {
	_, err := Decode([]byte("this is not a pdf"))
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestDecodeEmptyBufferReturnsDecodeError(t *testing.T) {
	_, err := Decode(nil)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestDecodeRunPlainTextUnchanged(t *testing.T) {
	text, ok := decodeRun("plain text, no escapes")
	require.True(t, ok)
	require.Equal(t, "plain text, no escapes", text)
}

func TestDecodeRunPercentEscapes(t *testing.T) {
	text, ok := decodeRun("caf%C3%A9")
	require.True(t, ok)
	require.Equal(t, "café", text)
}

func TestDecodeRunInvalidEscapeDropped(t *testing.T) {
	_, ok := decodeRun("broken %zz escape")
	require.False(t, ok)
}

func TestAssembleJoinsRunsAndPages(t *testing.T) {
	doc := &Document{
		Pages: []Page{
			{Runs: []Run{{Text: "Hello"}, {Text: "world"}}},
			{Runs: []Run{{Text: "Second"}, {Text: "page"}}},
		},
	}
	require.Equal(t, "Hello world\n\nSecond page", doc.Assemble())
}

func TestAssembleSkipsEmptyPages(t *testing.T) {
	doc := &Document{
		Pages: []Page{
			{Runs: []Run{{Text: "only"}}},
			{},
			{},
		},
	}
	require.Equal(t, "only", doc.Assemble())
}

func TestAssembleEmptyDocument(t *testing.T) {
	doc := &Document{}
	require.Equal(t, "", doc.Assemble())

	doc = &Document{Pages: []Page{{}, {}}}
	require.Equal(t, "", doc.Assemble())
}
