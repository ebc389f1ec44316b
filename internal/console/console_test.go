package console

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventide/internal/scripting/types"
)

func TestPresent(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)

	c.Present(types.Request{Kind: types.PresentSpeak, Args: map[string]string{"speaker": "Eirika", "text": "Brother!"}})
	c.Present(types.Request{Kind: types.PresentSpeak, Args: map[string]string{"text": "The castle burns."}})
	c.Present(types.Request{Kind: types.PresentAlert, Args: map[string]string{"text": "Got Vulnerary"}})
	c.Present(types.Request{Kind: types.PresentTransition, Args: map[string]string{"mode": "close", "color": "black"}, Flags: []string{"fast"}})
	c.Present(types.Request{Kind: types.PresentClearPortraits})

	assert.Equal(t, "Eirika: Brother!\n"+
		"  The castle burns.\n"+
		"[ Got Vulnerary ]\n"+
		"<transition color=black mode=close fast>\n"+
		"<clear_portraits>\n", buf.String())
}

func TestBusyClearsAfterOneCheck(t *testing.T) {
	c := New(&bytes.Buffer{})
	assert.False(t, c.Busy())

	c.Present(types.Request{Kind: types.PresentSpeak, Blocking: true})
	assert.True(t, c.Busy())
	assert.False(t, c.Busy())

	c.Present(types.Request{Kind: types.PresentSpeak, Blocking: true})
	c.Hurry()
	assert.False(t, c.Busy())
}

func TestAudio(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)
	c.PlayMusic("Theme", 400*time.Millisecond)
	c.StopMusic(time.Second)
	c.PlaySound("Chest", 0.5)

	assert.Equal(t, "♪ Theme (fade 400ms)\n♪ stop (fade 1s)\n♫ Chest 50%\n", buf.String())
}

func TestPendingStates(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)
	_, ok := c.PopPending()
	assert.False(t, ok)

	c.PushState(types.Handoff{State: "choice", Args: map[string]string{"nid": "pick"}})
	c.PushState(types.Handoff{State: "shop"})
	assert.Equal(t, "=> choice nid=pick\n=> shop\n", buf.String())

	h, ok := c.PopPending()
	require.True(t, ok)
	assert.Equal(t, "choice", h.State)
	h, ok = c.PopPending()
	require.True(t, ok)
	assert.Equal(t, "shop", h.State)
	_, ok = c.PopPending()
	assert.False(t, ok)
}
