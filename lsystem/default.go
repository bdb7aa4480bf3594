package lsystem

// defaultConfigJSON is a small bushy tree: trunk segments that fork with
// randomized yaw and pitch, thinning by a scale step per generation, and
// leaf circles on the outer generations.
const defaultConfigJSON = `{
  "rendering": {
    "default_angle_change": 25,
    "shapes": {
      "b": {"kind": "line", "width": 1.0, "length": 0.25},
      "l": {"kind": "circle", "size": 0.1}
    }
  },
  "rules": {
    "iterations": 7,
    "initial": "B",
    "rules": {
      "B": [
        {
          "rules": [
            {"result": "b|(0.7~0.85)[+(15~40)&(10~30)B][-(15~40)^(10~30)B]", "chance": 0.55},
            {"result": "b|(0.75~0.9)/(80~100)B", "chance": 0.3},
            {"result": "bL", "chance": 0.15, "min_gen": 3}
          ]
        },
        {
          "rules": [
            {"result": "b|(0.6~0.8)[+(30~55)B][-(30~55)B][&(30~55)B]", "chance": 0.6},
            {"result": "bL", "chance": 0.4, "min_gen": 2}
          ]
        }
      ],
      "L": [
        {"rules": [{"result": "l"}]}
      ]
    }
  }
}`

// DefaultConfig parses the built-in plant config. The document is a
// compile-time constant, so a parse failure is a programming error.
func DefaultConfig() *Config {
	cfg, err := ParseConfig([]byte(defaultConfigJSON))
	if err != nil {
		panic(err)
	}
	return cfg
}
