package component

// Script binds an entity to a tengo event handler script. Path is relative
// to the prefab script directory.
type Script struct {
	Path string
}

var ScriptComponent = NewComponent[Script]()
