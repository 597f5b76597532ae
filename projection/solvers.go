package projection

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// randomizedOversampling is the number of extra random directions sampled by
// the randomized solver beyond the requested components.
const randomizedOversampling = 10

// decomposeWithSVD delegates to gonum's stat.PC, which computes the thin SVD
// of the centered data. The right singular vectors are the principal
// components and the squared singular values, divided by n-1, the variances.
func decomposeWithSVD(centeredMatrix *mat.Dense, numberOfComponents int) (decomposition, error) {
	var principalComponents stat.PC
	if !principalComponents.PrincipalComponents(centeredMatrix, nil) {
		return decomposition{}, ErrFactorization
	}

	// Columns of componentVectors are the component directions
	var componentVectors mat.Dense
	principalComponents.VectorsTo(&componentVectors)
	variances := principalComponents.VarsTo(nil)

	return decomposition{
		components: leadingColumnsAsRows(&componentVectors, numberOfComponents),
		variances:  variances[:numberOfComponents],
	}, nil
}

// decomposeWithEigen diagonalizes the feature covariance matrix. It is
// cheaper than the SVD when there are many more samples than features.
func decomposeWithEigen(centeredMatrix *mat.Dense, numberOfComponents int) (decomposition, error) {
	_, numberOfFeatures := centeredMatrix.Dims()

	covarianceMatrix := mat.NewSymDense(numberOfFeatures, nil)
	stat.CovarianceMatrix(covarianceMatrix, centeredMatrix, nil)

	var eigenDecomposition mat.EigenSym
	if !eigenDecomposition.Factorize(covarianceMatrix, true) {
		return decomposition{}, ErrFactorization
	}

	// EigenSym returns eigenvalues in ascending order
	eigenvalues := eigenDecomposition.Values(nil)
	var eigenvectors mat.Dense
	eigenDecomposition.VectorsTo(&eigenvectors)

	components := mat.NewDense(numberOfComponents, numberOfFeatures, nil)
	variances := make([]float64, numberOfComponents)
	for componentIndex := 0; componentIndex < numberOfComponents; componentIndex++ {
		sourceIndex := numberOfFeatures - 1 - componentIndex
		components.SetRow(componentIndex, mat.Col(nil, sourceIndex, &eigenvectors))
		// Rounding can leave tiny negative eigenvalues for rank deficient data
		variances[componentIndex] = max(eigenvalues[sourceIndex], 0)
	}

	return decomposition{components: components, variances: variances}, nil
}

// decomposeRandomized implements the randomized range finder of Halko,
// Martinsson and Tropp (2011). A seeded Gaussian test matrix is multiplied
// into the data, refined with subspace iterations, and the small projected
// matrix is factorized with an exact SVD.
func decomposeRandomized(centeredMatrix *mat.Dense, numberOfComponents int, seed int64, powerIterations int) (decomposition, error) {
	numberOfSamples, numberOfFeatures := centeredMatrix.Dims()
	sampledDirections := min(numberOfComponents+randomizedOversampling, numberOfSamples, numberOfFeatures)

	rng := rand.New(rand.NewSource(seed))
	testMatrix := mat.NewDense(numberOfFeatures, sampledDirections, nil)
	testMatrix.Apply(func(int, int, float64) float64 {
		return rng.NormFloat64()
	}, testMatrix)

	var sampledRange mat.Dense
	sampledRange.Mul(centeredMatrix, testMatrix)

	for iteration := 0; iteration < powerIterations; iteration++ {
		rangeBasis, err := orthonormalBasis(&sampledRange)
		if err != nil {
			return decomposition{}, err
		}
		var featureSpace mat.Dense
		featureSpace.Mul(centeredMatrix.T(), rangeBasis)

		featureBasis, err := orthonormalBasis(&featureSpace)
		if err != nil {
			return decomposition{}, err
		}
		sampledRange.Reset()
		sampledRange.Mul(centeredMatrix, featureBasis)
	}

	rangeBasis, err := orthonormalBasis(&sampledRange)
	if err != nil {
		return decomposition{}, err
	}

	// Project the data onto the sampled range: (directions x features)
	var projected mat.Dense
	projected.Mul(rangeBasis.T(), centeredMatrix)

	var svd mat.SVD
	if !svd.Factorize(&projected, mat.SVDThin) {
		return decomposition{}, ErrFactorization
	}
	var rightSingularVectors mat.Dense
	svd.VTo(&rightSingularVectors)
	singularValues := svd.Values(nil)

	variances := make([]float64, numberOfComponents)
	for componentIndex := range variances {
		singularValue := singularValues[componentIndex]
		variances[componentIndex] = singularValue * singularValue / float64(numberOfSamples-1)
	}

	return decomposition{
		components: leadingColumnsAsRows(&rightSingularVectors, numberOfComponents),
		variances:  variances,
	}, nil
}

// orthonormalBasis returns an orthonormal basis of the column space of a tall
// matrix as its thin left singular vectors, with the same shape as matrix.
func orthonormalBasis(matrix *mat.Dense) (*mat.Dense, error) {
	var svd mat.SVD
	if !svd.Factorize(matrix, mat.SVDThinU) {
		return nil, ErrFactorization
	}

	var basis mat.Dense
	svd.UTo(&basis)
	return &basis, nil
}

// leadingColumnsAsRows copies the first numberOfComponents columns of a
// (features x k) matrix into the rows of a (numberOfComponents x features) matrix.
func leadingColumnsAsRows(columnVectors *mat.Dense, numberOfComponents int) *mat.Dense {
	numberOfFeatures, _ := columnVectors.Dims()
	components := mat.NewDense(numberOfComponents, numberOfFeatures, nil)

	for componentIndex := 0; componentIndex < numberOfComponents; componentIndex++ {
		components.SetRow(componentIndex, mat.Col(nil, componentIndex, columnVectors))
	}

	return components
}
