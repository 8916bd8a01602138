package tasks

import (
	"fmt"

	"github.com/desertthunder/catalogai/internal/models"
)

// GenreInstruction asks the model for the predominant genre of a list of titles.
const GenreInstruction = `
Você é um especialista em filmes, animes e séries.

Sua tarefa é identificar o gênero predominante em uma lista de títulos.

Responda apenas com o nome do gênero.

Por exemplo:

Títulos: The Walking Dead, Guerra Mundial Z, Zumbilândia
Gênero: Terror
`

// RecommendationInstruction asks for one movie, one anime and one series in the "===" block format.
const RecommendationInstruction = `
Você é um assistente especializado em recomendar animes, filmes e séries.

Siga estas regras:

* **Recomendações únicas:** Nunca sugira o mesmo título que o usuário forneceu como entrada.
* **Diversidade:** Recomende um filme, um anime e uma série, um de cada.
* **Formato da resposta:** Separe as recomendações com "===" e use o seguinte formato para cada recomendação:
    * Tipo: [Filme, Anime ou Série]
    * Título: [Título]
    * Sinopse: [Breve sinopse]
    * Chances de Você Gostar: [Alta, Média ou Baixa]

Exemplo:

Informação: The Walking Dead, Guerra Mundial Z, Zumbilândia, John Wick, Mad Max
Resposta:
===
Tipo: Filme
Título: Army of the Dead
Sinopse: Um grupo de mercenários planeja um assalto a um cassino em Las Vegas durante um surto de zumbis.
Chances de Você Gostar: Alta
===
Tipo: Anime
Título: Highschool of the Dead
Sinopse: Um grupo de estudantes precisa lutar para sobreviver a um apocalipse zumbi.
Chances de Você Gostar: Média
===
Tipo: Série
Título: Kingdom
Sinopse: Um príncipe coreano precisa enfrentar uma misteriosa praga zumbi que está devastando o reino.
Chances de Você Gostar: Alta
`

// GenrePrompt builds the first user turn.
func GenrePrompt(titles models.Titles) string {
	return GenreInstruction + fmt.Sprintf("Títulos: %s\nGênero: ", titles.Join())
}

// RecommendationPrompt builds the second user turn.
func RecommendationPrompt(titles models.Titles) string {
	return RecommendationInstruction + fmt.Sprintf("Informação: %s.\nResposta:\n", titles.Join())
}
