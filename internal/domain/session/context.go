package session

import "sync"

// Context es el estado compartido de una sesión de dashboard: quién es el
// owner admitido y cuál es la mascota activa. Se pasa a los dos engines.
// OwnerID lo escribe el Gate; ActivePetID solo el pets.Roster.
type Context struct {
	mu          sync.RWMutex
	ownerID     string
	activePetID string
}

func NewContext() *Context {
	return &Context{}
}

func (c *Context) OwnerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ownerID
}

func (c *Context) setOwnerID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ownerID = id
}

func (c *Context) ActivePetID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activePetID
}

func (c *Context) SetActivePetID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activePetID = id
}
