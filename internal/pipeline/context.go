package pipeline

import (
	"sync"

	"tubecast/internal/services"
)

// Context carries the intermediate artifacts of one pipeline run. Reads of
// absent values are not errors; stages that depend on an artifact use the
// Require variants, which name the missing key. Writes are safe from the
// parallel branches.
type Context struct {
	mu        sync.RWMutex
	newsItems []services.NewsItem
	script    string
	seo       *SeoMetadata
	visuals   []VisualPrompt
	audio     *services.AudioArtifact
}

func NewContext() *Context {
	return &Context{}
}

func (c *Context) SetNewsItems(items []services.NewsItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.newsItems = items
}

func (c *Context) NewsItems() ([]services.NewsItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.newsItems, c.newsItems != nil
}

func (c *Context) RequireNewsItems() ([]services.NewsItem, error) {
	items, ok := c.NewsItems()
	if !ok || len(items) == 0 {
		return nil, &MissingPrerequisiteError{Key: "NewsItems", Detail: "research stage produced no items"}
	}
	return items, nil
}

func (c *Context) SetScript(script string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.script = script
}

func (c *Context) Script() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.script, c.script != ""
}

func (c *Context) RequireScript() (string, error) {
	script, ok := c.Script()
	if !ok {
		return "", &MissingPrerequisiteError{Key: "Script", Detail: "script stage has not run"}
	}
	return script, nil
}

func (c *Context) SetSeo(seo *SeoMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seo = seo
}

func (c *Context) Seo() (*SeoMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seo, c.seo != nil
}

func (c *Context) RequireSeo() (*SeoMetadata, error) {
	seo, ok := c.Seo()
	if !ok {
		return nil, &MissingPrerequisiteError{Key: "SeoMetadata", Detail: "seo branch has not run"}
	}
	return seo, nil
}

func (c *Context) SetVisuals(visuals []VisualPrompt) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visuals = visuals
}

func (c *Context) Visuals() ([]VisualPrompt, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visuals, c.visuals != nil
}

func (c *Context) RequireVisuals() ([]VisualPrompt, error) {
	visuals, ok := c.Visuals()
	if !ok || len(visuals) == 0 {
		return nil, &MissingPrerequisiteError{Key: "VisualPrompts", Detail: "visual branch has not run"}
	}
	return visuals, nil
}

func (c *Context) SetAudio(audio *services.AudioArtifact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.audio = audio
}

func (c *Context) Audio() (*services.AudioArtifact, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.audio, c.audio != nil
}

func (c *Context) RequireAudio() (*services.AudioArtifact, error) {
	audio, ok := c.Audio()
	if !ok {
		return nil, &MissingPrerequisiteError{Key: "AudioArtifact", Detail: "audio branch has not run"}
	}
	return audio, nil
}
