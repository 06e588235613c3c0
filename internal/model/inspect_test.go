package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/textselect/pkg/errors"
)

func TestInspect(t *testing.T) {
	path := writeTempFile(t, WriteImage([]ImageSectionSource{
		selectionSource(t), sharingSource(t),
	}))

	info, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, ImageVersion, info.Version)
	require.Len(t, info.Sections, 2)

	sel := info.Sections[0]
	assert.Equal(t, TagSelection, sel.Tag)
	assert.Equal(t, 20, sel.InputDim)
	assert.Equal(t, 1, sel.OutputDim)
	assert.Equal(t, 8, sel.BucketCount)
	assert.Equal(t, 3, sel.ClickWindowL)
	assert.Equal(t, 3, sel.ClickWindowR)
	assert.Empty(t, sel.Collections)

	sh := info.Sections[1]
	assert.Equal(t, TagSharing, sh.Tag)
	assert.Equal(t, []string{"other", "phone"}, sh.Collections)
	assert.Equal(t, 1, sh.RegexCount)
	assert.Equal(t, 1, sh.LayerCount)
}

func TestInspectMissingFile(t *testing.T) {
	_, err := Inspect("/does/not/exist.tsmi")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeIO))
}

func TestReadSelectionModelOptions(t *testing.T) {
	path := writeTempFile(t, WriteImage([]ImageSectionSource{
		selectionSource(t), sharingSource(t),
	}))

	opts, err := ReadSelectionModelOptions(path)
	require.NoError(t, err)
	assert.Equal(t, 3, opts.FeatureProcessor.ClickWindowLeft)
	assert.Equal(t, 8, opts.FeatureProcessor.BucketCount)
}

func TestReadSelectionModelOptionsMissingSection(t *testing.T) {
	path := writeTempFile(t, WriteImage([]ImageSectionSource{sharingSource(t)}))

	_, err := ReadSelectionModelOptions(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeModelMissing))
}
