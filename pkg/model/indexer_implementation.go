package model

type indexerImplementation struct {
	activators   [][]uint64
	repressors   [][]uint64
	optionalInto [][]uint64
	definiteInto []bool
}

func (indexer *indexerImplementation) record(interaction Interaction, presence uint64) {
	table := indexer.activators
	if interaction.Sign == Repression {
		table = indexer.repressors
	}
	if table[interaction.Target][interaction.Regulator] == absent {
		table[interaction.Target][interaction.Regulator] = presence
	}
}

func (indexer *indexerImplementation) Activator(target, regulator uint64) uint64 {
	return indexer.activators[target][regulator]
}

func (indexer *indexerImplementation) Repressor(target, regulator uint64) uint64 {
	return indexer.repressors[target][regulator]
}

func (indexer *indexerImplementation) OptionalInto(target uint64) []uint64 {
	return indexer.optionalInto[target]
}

func (indexer *indexerImplementation) DefiniteInto(target uint64) bool {
	return indexer.definiteInto[target]
}
