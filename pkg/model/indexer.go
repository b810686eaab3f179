package model

// indexer interface is designed to tell, for every regulated node, how each other node takes part in its regulation
type indexer interface {
	// Returns absent, definite or the index of the optional interaction through which regulator activates target
	Activator(target, regulator uint64) uint64
	// Returns absent, definite or the index of the optional interaction through which regulator represses target
	Repressor(target, regulator uint64) uint64
	// Returns the optional interactions whose target is the given node
	OptionalInto(target uint64) []uint64
	// Returns true if some definite interaction targets the given node
	DefiniteInto(target uint64) bool
}

func newIndexer(input ModelInput) indexer {
	nodes := uint64(len(input.Nodes))
	indexer := &indexerImplementation{
		activators:   make([][]uint64, nodes),
		repressors:   make([][]uint64, nodes),
		optionalInto: make([][]uint64, nodes),
		definiteInto: make([]bool, nodes),
	}
	for target := range nodes {
		indexer.activators[target] = make([]uint64, nodes)
		indexer.repressors[target] = make([]uint64, nodes)
		for regulator := range nodes {
			indexer.activators[target][regulator] = absent
			indexer.repressors[target][regulator] = absent
		}
	}

	// Optional interactions are recorded first and the first record of a regulator wins
	for k, interaction := range input.Optional {
		indexer.record(interaction, uint64(k))
		indexer.optionalInto[interaction.Target] = append(indexer.optionalInto[interaction.Target], uint64(k))
	}
	for _, interaction := range input.Definite {
		indexer.record(interaction, definite)
		indexer.definiteInto[interaction.Target] = true
	}
	return indexer
}
