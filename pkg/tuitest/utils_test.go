package tuitest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[1mhello\x1b[0m   \nworld  \n\n"
	assert.Equal(t, "hello\nworld", StripANSI(in))
}

func TestKeyPress_String(t *testing.T) {
	assert.Equal(t, "n", KeyPress('n').String())
	assert.Equal(t, "D", KeyPress('D').String())
	assert.Equal(t, "ctrl+c", KeyCtrl('c').String())
}
