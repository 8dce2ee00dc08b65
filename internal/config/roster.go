package config

// DefaultRoster is the fixed set of OpenJDK mailing lists the update driver
// sweeps when no override is supplied via the YAML config overlay.
func DefaultRoster() []string {
	return []string{
		"amber-dev",
		"babylon-dev",
		"classfile-api-dev",
		"compiler-dev",
		"crac-dev",
		"discuss",
		"graal-dev",
		"jdk-dev",
		"jigsaw-dev",
		"leyden-dev",
		"lilliput-dev",
		"loom-dev",
		"net-dev",
		"nio-dev",
		"panama-dev",
		"quality-discuss",
		"valhalla-dev",
		"valhalla-spec-comments",
		"valhalla-spec-experts",
	}
}
