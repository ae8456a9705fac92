package index

type AlgType string

const (
	AlgTypeKDTree AlgType = "KD_TREE"
	AlgTypeBrute  AlgType = "BRUTE"
)

type Config struct {
	Alg AlgType `envconfig:"RANGO_INDEX_ALG" default:"KD_TREE"`
}

func (c Config) AlgType() AlgType {
	return c.Alg
}
