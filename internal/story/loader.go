package story

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/user/cliff-radio/internal/types"
	"gopkg.in/yaml.v3"
)

// ChapterCount is the number of chapters in the story
const ChapterCount = 4

//go:embed chapters/*.yaml
var embeddedChapters embed.FS

// chapterFile is the on-disk layout of a chapter dataset
type chapterFile struct {
	Chapter int                 `yaml:"chapter"`
	Title   string              `yaml:"title"`
	Scenes  []*types.StoryScene `yaml:"scenes"`
}

// DataLoader handles loading chapter content from files
type DataLoader struct {
	fsys fs.FS
	dir  string
}

// NewDataLoader creates a data loader reading from the embedded chapter set
func NewDataLoader() *DataLoader {
	return &DataLoader{
		fsys: embeddedChapters,
		dir:  "chapters",
	}
}

// NewDirDataLoader creates a data loader reading chapterN.yaml files from a directory
func NewDirDataLoader(dir string) *DataLoader {
	return &DataLoader{
		fsys: os.DirFS(dir),
		dir:  ".",
	}
}

// NewFSDataLoader creates a data loader over an arbitrary filesystem
func NewFSDataLoader(fsys fs.FS, dir string) *DataLoader {
	return &DataLoader{
		fsys: fsys,
		dir:  dir,
	}
}

// LoadChapter loads the scenes of one chapter keyed by scene id
func (dl *DataLoader) LoadChapter(chapter int) (map[string]*types.StoryScene, error) {
	name := path.Join(dl.dir, fmt.Sprintf("chapter%d.yaml", chapter))
	data, err := fs.ReadFile(dl.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read chapter file: %w", err)
	}

	var file chapterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse chapter %d: %w", chapter, err)
	}

	scenes := make(map[string]*types.StoryScene, len(file.Scenes))
	for _, scene := range file.Scenes {
		if scene == nil || scene.ID == "" {
			return nil, fmt.Errorf("chapter %d: scene without id", chapter)
		}
		if _, exists := scenes[scene.ID]; exists {
			return nil, &DuplicateSceneError{SceneID: scene.ID, FirstProvider: chapter, LaterProvider: chapter}
		}
		scenes[scene.ID] = scene
	}

	return scenes, nil
}

// Provider returns a ContentProvider for one chapter
func (dl *DataLoader) Provider(chapter int) ContentProvider {
	return func() (map[string]*types.StoryScene, error) {
		return dl.LoadChapter(chapter)
	}
}

// Providers returns one provider per chapter, in chapter order
func (dl *DataLoader) Providers() []ContentProvider {
	providers := make([]ContentProvider, 0, ChapterCount)
	for chapter := 1; chapter <= ChapterCount; chapter++ {
		providers = append(providers, dl.Provider(chapter))
	}
	return providers
}

// LoadContent builds the full scene graph from every chapter
func (dl *DataLoader) LoadContent() (*Content, error) {
	return NewContent(dl.Providers()...)
}

// DefaultContent builds the scene graph from the embedded chapters
func DefaultContent() (*Content, error) {
	return NewDataLoader().LoadContent()
}
