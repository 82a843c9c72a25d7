package family

// Cache holds family records by id. Only immutable data may be cached here;
// memberships and roles are always read from the repository.
type Cache interface {
	Get(familyID string) (*Family, bool)
	Set(family *Family)
}

type noopCache struct{}

func (noopCache) Get(string) (*Family, bool) {
	return nil, false
}

func (noopCache) Set(*Family) {}
