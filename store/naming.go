package store

import "strings"

// Naming maps a parameter name onto the file name of its model artifact.
type Naming struct {
	Separator string
	Suffix    string
	Extension string
}

// DefaultNaming produces keys such as "MQ135_Ammonia_(ppm)3.json".
var DefaultNaming = Naming{
	Separator: "_",
	Suffix:    "3",
	Extension: ".json",
}

// Key returns the artifact file name for a parameter: spaces are replaced with the separator
// and the suffix and extension are appended.
func (n Naming) Key(parameter string) string {
	ext := n.Extension
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.ReplaceAll(parameter, " ", n.Separator) + n.Suffix + ext
}

// ArtifactName returns the artifact file name for a parameter using DefaultNaming.
func ArtifactName(parameter string) string {
	return DefaultNaming.Key(parameter)
}
