package opinion

// Opinion is one short editorial take shown in the digest.
type Opinion struct {
	Scope string
	Text  string
}
