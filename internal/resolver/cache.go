package resolver

import (
	"strings"
	"sync"

	"typelens/internal/model"
	"typelens/internal/typeref"
)

type cachedResult struct {
	value typeref.Concrete
	found bool
}

// Cache memoizes resolution queries around the pure core. The core itself
// constructs its substitution state per call and shares nothing, so the
// cache is the only synchronization point. Safe for concurrent use.
type Cache struct {
	reg *model.Registry

	mu          sync.RWMutex
	typeArgs    map[string]cachedResult
	returnTypes map[string]cachedResult
}

// NewCache wraps a registry with a memoizing resolution layer.
func NewCache(reg *model.Registry) *Cache {
	return &Cache{
		reg:         reg,
		typeArgs:    make(map[string]cachedResult),
		returnTypes: make(map[string]cachedResult),
	}
}

// ResolveTypeArgument is the cached form of the hierarchy walk, keyed by
// (class, ancestor).
func (c *Cache) ResolveTypeArgument(className, ancestor string) (typeref.Concrete, bool) {
	key := className + "|" + ancestor

	c.mu.RLock()
	hit, ok := c.typeArgs[key]
	c.mu.RUnlock()
	if ok {
		return hit.value, hit.found
	}

	value, found := ResolveTypeArgument(c.reg, c.reg.Lookup(className), ancestor)

	c.mu.Lock()
	c.typeArgs[key] = cachedResult{value: value, found: found}
	c.mu.Unlock()
	return value, found
}

// ResolveParameterizedReturnType is the cached form of call-site
// resolution, keyed by (method, argument runtime-type signature).
func (c *Cache) ResolveParameterizedReturnType(methodRef string, args []model.Value) (typeref.Concrete, bool) {
	key := methodRef + "|" + argSignature(args)

	c.mu.RLock()
	hit, ok := c.returnTypes[key]
	c.mu.RUnlock()
	if ok {
		return hit.value, hit.found
	}

	value, found := ResolveParameterizedReturnType(c.reg, c.reg.LookupMethod(methodRef), args)

	c.mu.Lock()
	c.returnTypes[key] = cachedResult{value: value, found: found}
	c.mu.Unlock()
	return value, found
}

func argSignature(args []model.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a.Token != nil {
			parts[i] = "class:" + a.Token.Name
		} else {
			parts[i] = a.Runtime.Name
		}
	}
	return strings.Join(parts, ",")
}
