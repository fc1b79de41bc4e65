package firmware

// Image is a raw firmware image split into flash pages.
type Image struct {
	// PageSize is the page size in bytes the image was split with
	PageSize int

	// Pages contains the image data in transfer order. Every page is
	// exactly PageSize bytes except possibly the last one.
	Pages [][]byte
}

// Split divides content into fixed-size pages. The final page may be
// shorter than pageSize; zero-length content yields zero pages.
//
// The pages alias the content slice, they are not copies.
// pageSize must be positive; anything else yields an empty image.
func Split(content []byte, pageSize int) *Image {
	img := &Image{PageSize: pageSize}
	if pageSize <= 0 {
		return img
	}

	for len(content) > pageSize {
		img.Pages = append(img.Pages, content[:pageSize])
		content = content[pageSize:]
	}
	if len(content) > 0 {
		img.Pages = append(img.Pages, content)
	}

	return img
}

// PageCount returns the number of pages in the image.
func (i *Image) PageCount() int {
	return len(i.Pages)
}

// Page returns the data of the given 1-indexed page, matching the page
// numbering used on the wire.
func (i *Image) Page(n int) []byte {
	return i.Pages[n-1]
}

// Size returns the total image size in bytes.
func (i *Image) Size() int {
	size := 0
	for _, p := range i.Pages {
		size += len(p)
	}
	return size
}
