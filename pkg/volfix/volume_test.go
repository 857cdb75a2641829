package volfix_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stalexteam/volfix/pkg/volfix"
	"github.com/stalexteam/volfix/pkg/volfix/audiotest"
)

func TestParseVolume(t *testing.T) {
	tests := []struct {
		text    string
		want    float32
		wantErr string
	}{
		{text: "0", want: 0},
		{text: "0.5", want: 0.5},
		{text: "1", want: 1},
		{text: "1.0", want: 1},
		{text: " 0.25 ", want: 0.25},
		{text: "2", wantErr: "volume must be between 0 and 1"},
		{text: "1.5", wantErr: "volume must be between 0 and 1"},
		{text: "-0.1", wantErr: "volume must be between 0 and 1"},
		{text: "Inf", wantErr: "volume must be between 0 and 1"},
		{text: "abc", wantErr: "invalid number for volume"},
		{text: "", wantErr: "invalid number for volume"},
		{text: "0.5x", wantErr: "invalid number for volume"},
		{text: "NaN", wantErr: "invalid number for volume"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := volfix.ParseVolume(tt.text)

			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("ParseVolume(%q) error = %v, want %q", tt.text, err, tt.wantErr)
				}

				var inputErr *volfix.InputError
				if !errors.As(err, &inputErr) {
					t.Fatalf("ParseVolume(%q) should fail with an InputError, got %T", tt.text, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseVolume(%q): %v", tt.text, err)
			}
			if got != tt.want {
				t.Fatalf("ParseVolume(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestValidateVolumeBounds(t *testing.T) {
	for _, level := range []float32{0, 0.001, 0.999, 1} {
		if err := volfix.ValidateVolume(level); err != nil {
			t.Errorf("ValidateVolume(%v): %v", level, err)
		}
	}

	for _, level := range []float32{-0.001, 1.001, 2, -1} {
		if err := volfix.ValidateVolume(level); err == nil {
			t.Errorf("ValidateVolume(%v) should fail", level)
		}
	}
}

// withSession hands fn the first session of the first device of b
func withSession(t *testing.T, b *audiotest.Backend, fn func(volfix.SessionControl)) {
	t.Helper()

	withDevice(t, b, func(device volfix.Endpoint) {
		session, err := volfix.FindSession(testLogger(), device, func(string) bool { return true })
		if err != nil {
			t.Fatalf("FindSession: %v", err)
		}
		defer session.Release()

		fn(session)
	})
}

func TestSetVolume(t *testing.T) {
	b := sessionBackend("MyApp")

	withSession(t, b, func(session volfix.SessionControl) {
		if err := volfix.SetVolume(session, 0.5); err != nil {
			t.Fatalf("SetVolume: %v", err)
		}

		level, err := volfix.GetVolume(session)
		if err != nil {
			t.Fatalf("GetVolume: %v", err)
		}
		if level != 0.5 {
			t.Fatalf("GetVolume = %v, want 0.5", level)
		}
	})

	assertNoLeaks(t, b)
}

func TestSetVolumeIsIdempotent(t *testing.T) {
	b := sessionBackend("MyApp")

	withSession(t, b, func(session volfix.SessionControl) {
		for i := 0; i < 2; i++ {
			if err := volfix.SetVolume(session, 0.3); err != nil {
				t.Fatalf("SetVolume #%d: %v", i, err)
			}
		}
	})

	session := b.Devices[0].Sessions[0]
	if !reflect.DeepEqual(session.SetCalls, []float32{0.3, 0.3}) {
		t.Fatalf("unexpected set calls %v", session.SetCalls)
	}
	if session.Volume != 0.3 {
		t.Fatalf("volume = %v, want 0.3", session.Volume)
	}

	assertNoLeaks(t, b)
}

func TestSetVolumeEdges(t *testing.T) {
	for _, level := range []float32{0, 1} {
		b := sessionBackend("MyApp")
		b.Devices[0].Sessions[0].Volume = 0.5

		withSession(t, b, func(session volfix.SessionControl) {
			if err := volfix.SetVolume(session, level); err != nil {
				t.Fatalf("SetVolume(%v): %v", level, err)
			}
		})

		if got := b.Devices[0].Sessions[0].Volume; got != level {
			t.Fatalf("volume = %v, want %v", got, level)
		}
	}
}

func TestSetVolumeFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *audiotest.Session)
	}{
		{name: "no volume interface", setup: func(s *audiotest.Session) { s.NoVolumeControl = true }},
		{name: "set rejected", setup: func(s *audiotest.Session) { s.SetVolumeErr = errors.New("AUDCLNT_E_DEVICE_INVALIDATED") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sessionBackend("MyApp")
			tt.setup(b.Devices[0].Sessions[0])

			withSession(t, b, func(session volfix.SessionControl) {
				err := volfix.SetVolume(session, 0.5)

				var platformErr *volfix.PlatformError
				if !errors.As(err, &platformErr) {
					t.Fatalf("expected a PlatformError, got %v", err)
				}
				if code := volfix.ExitCode(err); code != volfix.ExitPlatform {
					t.Fatalf("exit code = %d, want %d", code, volfix.ExitPlatform)
				}
			})

			if got := b.Devices[0].Sessions[0].Volume; got != 1 {
				t.Fatalf("volume changed to %v after a failure", got)
			}

			assertNoLeaks(t, b)
		})
	}
}
