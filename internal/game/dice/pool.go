package dice

import "fmt"

// RollPool rolls poolSize d10 against difficulty and classifies the result.
// A pool of zero or fewer dice is a chance roll: exactly one die is rolled.
//
// Precondition: src must be non-nil; difficulty in [MinDifficulty, MaxDifficulty].
// Postcondition: len(Faces) == max(poolSize, 1); every face is in [1, 10];
// Successes counts faces >= difficulty; IsBotch iff no successes, at least one
// face of 1 and poolSize > 0; IsCritical iff Successes > 0 and any face is 10.
func RollPool(src Source, poolSize, difficulty int) PoolResult {
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		panic(fmt.Sprintf("dice: RollPool precondition violated: difficulty %d outside [%d, %d]",
			difficulty, MinDifficulty, MaxDifficulty))
	}

	n := poolSize
	if n <= 0 {
		n = 1
	}

	faces := make([]int, n)
	successes, ones, tens := 0, 0, 0
	for i := range faces {
		face := src.Intn(Sides) + 1
		faces[i] = face
		if face >= difficulty {
			successes++
		}
		switch face {
		case 1:
			ones++
		case Sides:
			tens++
		}
	}

	return PoolResult{
		Pool:       poolSize,
		Difficulty: difficulty,
		Faces:      faces,
		Successes:  successes,
		IsBotch:    successes == 0 && ones > 0 && poolSize > 0,
		IsCritical: successes > 0 && tens > 0,
	}
}
