package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequiresFields(t *testing.T) {
	p := newProvider(t, false)
	v := NewLoginView(p)

	v.inputs[fieldEmail].SetValue("ada@example.com")
	v, _ = send(v, "enter")

	assert.Equal(t, "Please fill in all fields", v.errMsg)
	assert.Nil(t, p.User())
}

func TestLoginSignsIn(t *testing.T) {
	p := newProvider(t, false)
	v := NewLoginView(p)

	v.inputs[fieldEmail].SetValue("ada@example.com")
	v.inputs[fieldPassword].SetValue("secret")
	next, cmd := v.Update(press("enter"))
	v = next.(LoginView)

	msg := cmd()
	next, cmd = v.Update(msg)
	v = next.(LoginView)
	require.NotNil(t, cmd)
	assert.Equal(t, SignedInMsg{}, cmd())

	require.NotNil(t, p.User())
	assert.Equal(t, "ada@example.com", p.User().Email)
	assert.Len(t, p.Projects(), 2)
	assert.Empty(t, v.inputs[fieldPassword].Value())
}

func TestRegisterDuplicate(t *testing.T) {
	p := newProvider(t, true)
	v := NewLoginView(p)

	v, _ = send(v, "ctrl+r")
	require.True(t, v.register)
	assert.Equal(t, fieldName, v.focus)

	v.inputs[fieldName].SetValue("Ada")
	v.inputs[fieldEmail].SetValue("ada@example.com")
	v.inputs[fieldPassword].SetValue("pw")
	v, _ = send(v, "enter")

	assert.Equal(t, "User already exists", v.errMsg)
	assert.False(t, v.busy)
}

func TestLoginFocusCycles(t *testing.T) {
	v := NewLoginView(newProvider(t, false))
	assert.Equal(t, fieldEmail, v.focus)

	v, _ = send(v, "tab")
	assert.Equal(t, fieldPassword, v.focus)
	v, _ = send(v, "tab")
	assert.Equal(t, fieldEmail, v.focus)
}
