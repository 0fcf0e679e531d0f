package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestByCityPipeline_LimitsTopN(t *testing.T) {
	p := byCityPipeline(TopCities)
	require.Len(t, p, 4)
	assert.Equal(t, "$limit", p[3][0].Key)
	assert.Equal(t, int64(10), p[3][0].Value)
	assert.Equal(t, "$group", p[1][0].Key)
}

func TestByCategoryPipeline_JoinsCategories(t *testing.T) {
	p := byCategoryPipeline()
	require.Len(t, p, 5)
	assert.Equal(t, "$unwind", p[0][0].Key)
	assert.Equal(t, "$categoryIds", p[0][0].Value)

	lookup, ok := p[1][0].Value.(bson.D)
	require.True(t, ok)
	assert.Contains(t, lookup, bson.E{Key: "from", Value: CategoriesCollection})

	group, ok := p[3][0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.E{Key: "_id", Value: "$category.name"}, group[0])
}
