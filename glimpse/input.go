package glimpse

type Key uint8

const (
	KeyUnknown Key = iota
	KeyA
	KeyN
	KeyT
	KeySpace
	KeyEscape
)

var keyNames = [...]string{
	KeyUnknown: "Unknown",
	KeyA:       "A",
	KeyN:       "N",
	KeyT:       "T",
	KeySpace:   "Space",
	KeyEscape:  "Escape",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}

	return "Key(?)"
}
