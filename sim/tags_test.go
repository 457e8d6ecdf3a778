package sim

import "testing"

func TestSRAMTag_String(t *testing.T) {
	cases := map[SRAMTag]string{
		SRAMReady:    "READY",
		SRAMRemove:   "REMOVE",
		SRAMRemoving: "REMOVING",
	}
	for tag, want := range cases {
		if got := tag.String(); got != want {
			t.Errorf("SRAMTag(%d).String() = %s, want %s", tag, got, want)
		}
	}
}

func TestArrayTag_String(t *testing.T) {
	cases := map[ArrayTag]string{
		ArrayNull:        "NULL",
		ArraySubsum:      "SUBSUM",
		ArrayCompletesum: "COMPLETESUM",
		ArrayRemoving:    "REMOVING",
	}
	for tag, want := range cases {
		if got := tag.String(); got != want {
			t.Errorf("ArrayTag(%d).String() = %s, want %s", tag, got, want)
		}
	}
}
