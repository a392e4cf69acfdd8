package apicollectionv1

import (
	"github.com/fulldump/box"
)

func BuildV1Collection(v1 *box.R) *box.R {

	collections := v1.Resource("/collections").
		WithActions(
			box.Get(listCollections).WithName("listCollections"),
			box.Post(createCollection).WithName("createCollection"),
		)

	v1.Resource("/collections/{collectionName}").
		WithActions(
			box.Get(getCollection).WithName("getCollection"),
			box.Delete(dropCollection).WithName("dropCollection"),
			box.ActionPost(get).WithName("get"),
			box.ActionPost(getKeysAround).WithName("getKeysAround"),
			box.ActionPost(put).WithName("put"),
			box.ActionPost(putMany).WithName("putMany"),
			box.ActionPost(query).WithName("query"),
			box.ActionPost(readQueryCursor).WithName("readQueryCursor"),
			box.ActionPost(diff).WithName("diff"),
			box.ActionPost(readDiffCursor).WithName("readDiffCursor"),
			box.ActionPost(closeCursor).WithName("closeCursor"),
			box.ActionPost(listReaders).WithName("listReaders"),
			box.ActionPost(createReader).WithName("createReader"),
			box.ActionPost(updateReader).WithName("updateReader"),
			box.ActionPost(deleteReader).WithName("deleteReader"),
			box.ActionPost(getGeneration).WithName("getGeneration"),
			box.ActionPost(startGeneration).WithName("startGeneration"),
			box.ActionPost(commitGeneration).WithName("commitGeneration"),
			box.ActionPost(abortGeneration).WithName("abortGeneration"),
			box.ActionPost(startPhantom).WithName("startPhantom"),
			box.ActionPost(dropPhantom).WithName("dropPhantom"),
			box.ActionPost(cleanup).WithName("cleanup"),
			box.ActionPost(generationStream).WithName("generationStream"),
		)

	return collections
}
