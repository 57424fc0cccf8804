package models

// Payload is the unit of work exchanged with the host application. Input
// documents live in StringList with parallel SegmentNumber/SegmentID lists;
// results come back in StringArrayList with the same parallel lists, one
// entry per output row.
type Payload struct {
	FileID          string          `json:"file_id"`
	StringList      []string        `json:"string_list,omitempty"`
	SegmentNumber   []uint64        `json:"segment_number"`
	SegmentID       []string        `json:"segment_id"`
	StringArrayList []Row           `json:"string_array_list,omitempty"`
	Errors          []DocumentError `json:"errors,omitempty"`
}

// Document is one input string together with the segment it came from.
type Document struct {
	FileID        string
	Index         int
	Text          string
	SegmentNumber uint64
	SegmentID     string
}

// DocumentError records a document that could not be annotated.
type DocumentError struct {
	Index         int    `json:"index"`
	SegmentNumber uint64 `json:"segment_number"`
	Error         string `json:"error"`
}

// NewPayload builds an input payload whose segment numbers are the positions
// of the documents.
func NewPayload(fileID string, docs []string, segmentIDs []string) Payload {
	numbers := make([]uint64, len(docs))
	for i := range docs {
		numbers[i] = uint64(i)
	}
	return Payload{
		FileID:        fileID,
		StringList:    docs,
		SegmentNumber: numbers,
		SegmentID:     segmentIDs,
	}
}

// Documents pairs every input string with its segment. The payload lists
// must already be aligned.
func (p Payload) Documents() []Document {
	docs := make([]Document, len(p.StringList))
	for i, text := range p.StringList {
		docs[i] = Document{
			FileID:        p.FileID,
			Index:         i,
			Text:          text,
			SegmentNumber: p.SegmentNumber[i],
		}
		if len(p.SegmentID) > 0 {
			docs[i].SegmentID = p.SegmentID[i]
		}
	}
	return docs
}
