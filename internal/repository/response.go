package repository

// Response is the result of a repository query. A failed response carries
// nothing; a successful one carries a single bundle or a list.
type Response struct {
	ok      bool
	list    bool
	bundles []DataBundle
}

// Failure is the response for missing data.
func Failure() Response { return Response{} }

// Single wraps one bundle.
func Single(b DataBundle) Response {
	return Response{ok: true, bundles: []DataBundle{b}}
}

// List wraps a possibly empty list of bundles.
func List(bundles []DataBundle) Response {
	return Response{ok: true, list: true, bundles: bundles}
}

// OK reports whether the query succeeded.
func (r Response) OK() bool { return r.ok }

// IsList reports whether the query answered with a list.
func (r Response) IsList() bool { return r.list }

// Bundle returns the single bundle, or the first of a list.
func (r Response) Bundle() (DataBundle, bool) {
	if !r.ok || len(r.bundles) == 0 {
		return DataBundle{}, false
	}
	return r.bundles[0], true
}

// Bundles returns every bundle of the response.
func (r Response) Bundles() []DataBundle {
	if !r.ok {
		return nil
	}
	return r.bundles
}

// Empty reports whether the response carries no bundles.
func (r Response) Empty() bool { return len(r.Bundles()) == 0 }
