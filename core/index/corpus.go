package index

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/op/go-logging"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

var log = logging.MustGetLogger("index")

/*
A corpus file is a YAML sequence of documents, each a mapping from
field name to text:

  - title: Bat recycling
    body: the quick brown fox
  - title: Time zones
    body: ...

Scalar values of any type are indexed through their string form.
*/
type corpusDoc map[string]interface{}

// LoadCorpus maps path read-only and adds every document it lists to mi.
func LoadCorpus(mi *MemoryIndex, path string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if fi.Size() == 0 {
		return 0, nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return 0, fmt.Errorf("mmap %v: %w", path, err)
	}
	defer func() {
		if uerr := data.Unmap(); err == nil {
			err = uerr
		}
	}()

	var docs []corpusDoc
	if err = yaml.Unmarshal(data, &docs); err != nil {
		return 0, fmt.Errorf("parse corpus %v: %w", path, err)
	}
	for _, cd := range docs {
		mi.AddDocument(cd.toDocument())
	}
	log.Debugf("Loaded %v documents from %v", len(docs), path)
	return len(docs), nil
}

// ParseCorpus is LoadCorpus for an in-memory YAML document.
func ParseCorpus(mi *MemoryIndex, data []byte) (int, error) {
	var docs []corpusDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return 0, fmt.Errorf("parse corpus: %w", err)
	}
	for _, cd := range docs {
		mi.AddDocument(cd.toDocument())
	}
	return len(docs), nil
}

func (cd corpusDoc) toDocument() *Document {
	// fields are added in name order so field numbers are stable
	names := make([]string, 0, len(cd))
	for name := range cd {
		names = append(names, name)
	}
	slices.Sort(names)
	doc := NewDocument()
	for _, name := range names {
		switch v := cd[name].(type) {
		case nil:
		case []interface{}:
			for _, item := range v {
				doc.Add(name, fmt.Sprint(item))
			}
		default:
			doc.Add(name, fmt.Sprint(v))
		}
	}
	return doc
}
